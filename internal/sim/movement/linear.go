// Package movement is a straight-line stand-in for the navigation collaborator.
package movement

import (
	"time"

	"foodtruck.sim/internal/sim/geom"
)

// Linear walks every body toward its target at a fixed speed (units per second).
type Linear struct {
	speed  float64
	pos    map[string]geom.Vec3
	target map[string]geom.Vec3
}

func NewLinear(speed float64) *Linear {
	return &Linear{
		speed:  speed,
		pos:    map[string]geom.Vec3{},
		target: map[string]geom.Vec3{},
	}
}

// SetTargetPosition sets where id walks to. An unknown id is placed at pos.
func (l *Linear) SetTargetPosition(id string, pos geom.Vec3) {
	if _, ok := l.pos[id]; !ok {
		l.pos[id] = pos
	}
	l.target[id] = pos
}

func (l *Linear) Position(id string) (geom.Vec3, bool) {
	p, ok := l.pos[id]
	return p, ok
}

func (l *Linear) Remove(id string) {
	delete(l.pos, id)
	delete(l.target, id)
}

func (l *Linear) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	step := l.speed * dt.Seconds()
	for id, tgt := range l.target {
		l.pos[id] = geom.MoveTowards(l.pos[id], tgt, step)
	}
}
