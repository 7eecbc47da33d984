package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNormalizeAndDistance(t *testing.T) {
	n := V(3, 0, 4).Normalize()
	if !near(n.Len(), 1) || !near(n.X, 0.6) || !near(n.Z, 0.8) {
		t.Fatalf("unexpected normalize: %+v", n)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Fatalf("zero vector must stay zero")
	}
	if d := Distance(V(1, 1, 1), V(1, 1, 3)); !near(d, 2) {
		t.Fatalf("distance: got %f", d)
	}
}

func TestMoveTowards(t *testing.T) {
	got := MoveTowards(V(0, 0, 0), V(0, 0, 10), 4)
	if !near(got.Z, 4) {
		t.Fatalf("expected partial step, got %+v", got)
	}
	got = MoveTowards(V(0, 0, 9), V(0, 0, 10), 4)
	if got != V(0, 0, 10) {
		t.Fatalf("expected snap to target, got %+v", got)
	}
}
