package queue

import (
	"testing"

	"foodtruck.sim/internal/sim/geom"
)

type fakeMember struct {
	key     string
	target  geom.Vec3
	removed int
}

func (f *fakeMember) Key() string                     { return f.key }
func (f *fakeMember) SetTargetPosition(pos geom.Vec3) { f.target = pos }
func (f *fakeMember) RemovedFromQueue()               { f.removed++ }

func newScheduler() *Scheduler {
	return New(Config{Anchor: geom.V(1, 0, 0), Direction: geom.V(0, 0, 4), Spacing: 2})
}

func TestDequeueHeadShiftsLine(t *testing.T) {
	s := newScheduler()
	a, b, c := &fakeMember{key: "A"}, &fakeMember{key: "B"}, &fakeMember{key: "C"}
	for _, m := range []*fakeMember{a, b, c} {
		if !s.Enqueue(m) {
			t.Fatalf("enqueue %s", m.key)
		}
	}
	if c.target != geom.V(1, 0, 4) {
		t.Fatalf("C target before: %+v", c.target)
	}
	if !s.Dequeue(a) {
		t.Fatalf("dequeue A")
	}
	if !s.IsHead(b) || s.IsHead(a) {
		t.Fatalf("B must be head")
	}
	if b.target != geom.V(1, 0, 0) {
		t.Fatalf("B target: %+v", b.target)
	}
	if c.target != geom.V(1, 0, 2) {
		t.Fatalf("C target: %+v", c.target)
	}
	if s.Position(c) != 1 || s.Len() != 2 {
		t.Fatalf("position/len: %d/%d", s.Position(c), s.Len())
	}
}

func TestEnqueueIsIdempotent(t *testing.T) {
	s := newScheduler()
	a := &fakeMember{key: "A"}
	changes := 0
	s.OnChange(func([]string) { changes++ })

	s.Enqueue(a)
	if s.Enqueue(&fakeMember{key: "A"}) {
		t.Fatalf("same key must not be added twice")
	}
	if s.Len() != 1 || changes != 1 {
		t.Fatalf("len=%d changes=%d", s.Len(), changes)
	}
	if s.Dequeue(&fakeMember{key: "Z"}) {
		t.Fatalf("dequeue of absent member must report false")
	}
	if s.Enqueue(nil) {
		t.Fatalf("nil member accepted")
	}
}

func TestClearAllNotifiesMembers(t *testing.T) {
	s := newScheduler()
	a, b := &fakeMember{key: "A"}, &fakeMember{key: "B"}
	s.Enqueue(a)
	s.Enqueue(b)
	var last []string
	s.OnChange(func(k []string) { last = k })

	s.ClearAll()
	if a.removed != 1 || b.removed != 1 {
		t.Fatalf("removal callbacks: %d %d", a.removed, b.removed)
	}
	if s.Len() != 0 || len(last) != 0 {
		t.Fatalf("queue not empty")
	}
	if _, ok := s.Head(); ok {
		t.Fatalf("empty queue has no head")
	}
}
