package timer

import (
	"testing"
	"time"
)

func TestSimClockAdvance(t *testing.T) {
	c := NewSimClock(time.Time{})
	if !c.Now().Equal(Epoch) {
		t.Fatalf("expected epoch start, got %s", c.Now())
	}

	c.Advance(1500 * time.Millisecond)
	if got := c.Now().Sub(Epoch); got != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s elapsed, got %s", got)
	}

	c.Advance(-time.Second)
	if got := c.Now().Sub(Epoch); got != 1500*time.Millisecond {
		t.Fatalf("negative advance moved the clock: %s", got)
	}
}

func TestSimClockRunsCallbacksInDueOrder(t *testing.T) {
	c := NewSimClock(time.Time{})
	var got []string

	c.ScheduleAfter(300*time.Millisecond, func() { got = append(got, "c") })
	c.ScheduleAfter(100*time.Millisecond, func() { got = append(got, "a") })
	c.ScheduleAfter(200*time.Millisecond, func() { got = append(got, "b1") })
	c.ScheduleAfter(200*time.Millisecond, func() { got = append(got, "b2") })

	c.Advance(250 * time.Millisecond)
	want := []string{"a", "b1", "b2"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if c.Pending() != 1 {
		t.Fatalf("expected 1 pending, got %d", c.Pending())
	}

	c.Advance(50 * time.Millisecond)
	if len(got) != 4 || got[3] != "c" {
		t.Fatalf("expected c to run on its due instant, got %v", got)
	}
}

func TestSimClockCallbackSeesDueTime(t *testing.T) {
	c := NewSimClock(time.Time{})
	var at time.Duration
	c.ScheduleAfter(3*time.Second, func() { at = c.Now().Sub(Epoch) })

	c.Advance(10 * time.Second)
	if at != 3*time.Second {
		t.Fatalf("callback saw %s, want 3s", at)
	}
	if got := c.Now().Sub(Epoch); got != 10*time.Second {
		t.Fatalf("clock should end at target, got %s", got)
	}
}

func TestSimClockNestedScheduling(t *testing.T) {
	c := NewSimClock(time.Time{})
	count := 0
	c.ScheduleAfter(time.Second, func() {
		count++
		c.ScheduleAfter(time.Second, func() { count++ })
		c.ScheduleAfter(5*time.Second, func() { count++ })
	})

	c.Advance(3 * time.Second)
	if count != 2 {
		t.Fatalf("expected nested callback due in range to run, count=%d", count)
	}
	if c.Pending() != 1 {
		t.Fatalf("expected the late callback to stay queued, pending=%d", c.Pending())
	}
}
