// Package queue keeps the FIFO line of customers in front of the truck.
package queue

import (
	"foodtruck.sim/internal/sim/geom"
	"foodtruck.sim/internal/sim/notify"
)

// Member is anything that can stand in line.
type Member interface {
	Key() string
	SetTargetPosition(pos geom.Vec3)
	// RemovedFromQueue is called by ClearAll before the member is dropped.
	RemovedFromQueue()
}

type Config struct {
	Anchor    geom.Vec3
	Direction geom.Vec3
	Spacing   float64
}

type Scheduler struct {
	cfg     Config
	dir     geom.Vec3
	members []Member

	changed notify.Hub[[]string]
}

func New(cfg Config) *Scheduler {
	return &Scheduler{cfg: cfg, dir: cfg.Direction.Normalize()}
}

// OnChange receives the member keys, head first, after every change.
func (s *Scheduler) OnChange(fn func(keys []string)) (cancel func()) {
	return s.changed.Subscribe(fn)
}

// Target is the standing position for slot i.
func (s *Scheduler) Target(i int) geom.Vec3 {
	return s.cfg.Anchor.Add(s.dir.Scale(float64(i) * s.cfg.Spacing))
}

// Enqueue appends m unless it is already queued. It reports whether m was added.
func (s *Scheduler) Enqueue(m Member) bool {
	if m == nil || s.Position(m) >= 0 {
		return false
	}
	s.members = append(s.members, m)
	s.reposition()
	return true
}

// Dequeue removes m and closes the gap. It reports whether m was queued.
func (s *Scheduler) Dequeue(m Member) bool {
	i := s.Position(m)
	if i < 0 {
		return false
	}
	s.members = append(s.members[:i:i], s.members[i+1:]...)
	s.reposition()
	return true
}

// ClearAll tells every member it was removed, then empties the line.
func (s *Scheduler) ClearAll() {
	if len(s.members) == 0 {
		return
	}
	members := s.members
	s.members = nil
	for _, m := range members {
		m.RemovedFromQueue()
	}
	s.changed.Emit(nil)
}

func (s *Scheduler) Position(m Member) int {
	if m == nil {
		return -1
	}
	k := m.Key()
	for i, q := range s.members {
		if q.Key() == k {
			return i
		}
	}
	return -1
}

func (s *Scheduler) IsHead(m Member) bool { return len(s.members) > 0 && s.Position(m) == 0 }

func (s *Scheduler) Head() (Member, bool) {
	if len(s.members) == 0 {
		return nil, false
	}
	return s.members[0], true
}

func (s *Scheduler) Len() int { return len(s.members) }

// Members returns a copy, head first.
func (s *Scheduler) Members() []Member {
	return append([]Member(nil), s.members...)
}

func (s *Scheduler) keys() []string {
	out := make([]string, len(s.members))
	for i, m := range s.members {
		out[i] = m.Key()
	}
	return out
}

func (s *Scheduler) reposition() {
	for i, m := range s.members {
		m.SetTargetPosition(s.Target(i))
	}
	s.changed.Emit(s.keys())
}
