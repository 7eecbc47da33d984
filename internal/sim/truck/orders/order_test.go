package orders

import (
	"testing"
	"time"

	"foodtruck.sim/internal/sim/catalogs"
)

func TestExpiryFiresOncePerActivation(t *testing.T) {
	o := New(&catalogs.ItemDef{ID: "TTEOKBOKKI"}, 1, 30*time.Second)
	fired := 0
	o.OnExpired(func(*Order) { fired++ })

	o.Advance(10 * time.Second)
	if fired != 0 || o.Remaining() != 30*time.Second {
		t.Fatalf("inactive order must not count down: remaining=%v", o.Remaining())
	}

	o.Activate()
	o.Advance(31 * time.Second)
	if fired != 1 || o.State() != Expired || o.Remaining() != 0 {
		t.Fatalf("after 31s: fired=%d state=%v remaining=%v", fired, o.State(), o.Remaining())
	}
	o.Advance(5 * time.Second)
	if fired != 1 {
		t.Fatalf("expiry fired again: %d", fired)
	}

	o.Activate()
	if o.Remaining() != 30*time.Second || o.TimeRatio() != 1 {
		t.Fatalf("reactivation must reset remaining: %v", o.Remaining())
	}
	o.Advance(30 * time.Second)
	if fired != 2 {
		t.Fatalf("expected a second expiry after reactivation, got %d", fired)
	}
}

func TestCompleteAndDeactivateNeverExpire(t *testing.T) {
	o := New(nil, 1, 10*time.Second)
	fired := 0
	o.OnExpired(func(*Order) { fired++ })

	o.Activate()
	o.Advance(5 * time.Second)
	if r := o.TimeRatio(); r < 0.49 || r > 0.51 {
		t.Fatalf("ratio after 5s of 10s: %v", r)
	}
	o.Complete()
	o.Advance(time.Minute)
	if fired != 0 || o.State() != Completed {
		t.Fatalf("completed order expired: fired=%d state=%v", fired, o.State())
	}

	o.Activate()
	o.Deactivate()
	o.Advance(time.Minute)
	if fired != 0 || o.State() != Inactive {
		t.Fatalf("deactivated order expired: fired=%d state=%v", fired, o.State())
	}
}

func TestTimeRatioWithoutLimit(t *testing.T) {
	o := New(nil, 1, 0)
	if o.TimeRatio() != 1 {
		t.Fatalf("expected 1 for zero limit, got %v", o.TimeRatio())
	}
	o.Reset(nil, 2, 4*time.Second)
	if o.State() != Inactive || o.Quantity != 2 || o.Remaining() != 4*time.Second {
		t.Fatalf("reset: %+v", o)
	}
}
