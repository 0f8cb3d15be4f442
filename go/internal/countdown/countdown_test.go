package countdown

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// recorder collects snapshots delivered through WithOnUpdate.
type recorder chan Snapshot

func newRecorder() recorder {
	return make(recorder, 16)
}

func (r recorder) record(s Snapshot) {
	r <- s
}

func (r recorder) next(t *testing.T) Snapshot {
	t.Helper()
	select {
	case s := <-r:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for countdown update")
		return Snapshot{}
	}
}

func (r recorder) expectNone(t *testing.T) {
	t.Helper()
	select {
	case s := <-r:
		t.Fatalf("unexpected countdown update: %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCountdownFirstTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock, clock.Now().Add(90061000*time.Millisecond))
	defer c.Dispose()

	if got := c.Display(); got != "1d 1h 1m 1s" {
		t.Fatalf("Display() = %q, want %q", got, "1d 1h 1m 1s")
	}
	if c.State() != StateCounting {
		t.Fatalf("State() = %v, want counting", c.State())
	}
}

func TestCountdownPastTargetExpiresImmediately(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newRecorder()

	c := New(clock, clock.Now().Add(-1000*time.Millisecond), WithOnUpdate(rec.record))
	defer c.Dispose()

	first := rec.next(t)
	if first.State != StateExpired || first.Display != ExpiredMessage {
		t.Fatalf("first update = %+v, want expired", first)
	}
	if first.Transition {
		t.Error("initial evaluation must not report a transition")
	}
	if c.Display() != ExpiredMessage {
		t.Errorf("Display() = %q", c.Display())
	}

	clock.Advance(time.Second)
	rec.expectNone(t)
}

func TestCountdownZeroTargetExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock, time.Time{})
	if c.State() != StateExpired || c.Display() != ExpiredMessage {
		t.Fatalf("zero target = %q/%v", c.Display(), c.State())
	}
}

func TestCountdownTicksUntilExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newRecorder()

	c := New(clock, clock.Now().Add(2*time.Second), WithOnUpdate(rec.record))
	defer c.Dispose()

	if s := rec.next(t); s.Display != "0d 0h 0m 2s" {
		t.Fatalf("initial display = %q", s.Display)
	}

	clock.Advance(time.Second)
	if s := rec.next(t); s.Display != "0d 0h 0m 1s" || s.State != StateCounting {
		t.Fatalf("after 1s = %+v", s)
	}

	clock.Advance(time.Second)
	s := rec.next(t)
	if s.Display != ExpiredMessage || s.State != StateExpired {
		t.Fatalf("after 2s = %+v", s)
	}
	if !s.Transition {
		t.Error("expected transition flag on expiry")
	}

	// the ticker is gone; further time produces nothing
	clock.Advance(5 * time.Second)
	rec.expectNone(t)
	if c.Display() != ExpiredMessage {
		t.Errorf("Display() = %q after expiry", c.Display())
	}
}

func TestCountdownDisposeStopsUpdates(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newRecorder()

	c := New(clock, clock.Now().Add(time.Hour), WithOnUpdate(rec.record))
	rec.next(t)

	c.mu.Lock()
	staleGeneration := c.generation
	c.mu.Unlock()

	c.Dispose()
	c.Dispose()
	if !c.Disposed() {
		t.Fatal("Disposed() = false")
	}

	clock.Advance(3 * time.Second)
	rec.expectNone(t)

	// a wake-up that was already in flight when Dispose ran
	if c.tick(staleGeneration) {
		t.Error("tick after dispose asked to keep running")
	}
	if got := c.Display(); got != "0d 1h 0m 0s" {
		t.Errorf("Display() = %q after dispose, want unchanged", got)
	}
}

func TestCountdownSetTargetReplacesTicker(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newRecorder()

	c := New(clock, clock.Now().Add(10*time.Second), WithOnUpdate(rec.record))
	defer c.Dispose()
	rec.next(t)

	c.mu.Lock()
	staleGeneration := c.generation
	c.mu.Unlock()

	c.SetTarget(clock.Now().Add(time.Hour))
	if s := rec.next(t); s.Display != "0d 1h 0m 0s" {
		t.Fatalf("after SetTarget display = %q", s.Display)
	}

	if c.tick(staleGeneration) {
		t.Error("stale ticker was allowed to keep running")
	}
	rec.expectNone(t)

	clock.Advance(time.Second)
	if s := rec.next(t); s.Display != "0d 0h 59m 59s" {
		t.Fatalf("after tick display = %q", s.Display)
	}

	// same target is a no-op
	c.SetTarget(c.Target())
	rec.expectNone(t)
}

func TestCountdownSetTargetToPast(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock, clock.Now().Add(time.Minute))
	defer c.Dispose()

	c.SetTarget(clock.Now().Add(-time.Minute))
	if c.State() != StateExpired || c.Display() != ExpiredMessage {
		t.Fatalf("got %q/%v", c.Display(), c.State())
	}
}

func TestCountdownInstancesIndependent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	recA, recB := newRecorder(), newRecorder()

	a := New(clock, clock.Now().Add(time.Minute), WithOnUpdate(recA.record))
	b := New(clock, clock.Now().Add(time.Minute), WithOnUpdate(recB.record))
	defer b.Dispose()
	recA.next(t)
	recB.next(t)

	a.Dispose()
	clock.Advance(time.Second)

	if s := recB.next(t); s.Display != "0d 0h 0m 59s" {
		t.Fatalf("b display = %q", s.Display)
	}
	recA.expectNone(t)
}

func TestStateText(t *testing.T) {
	b, _ := StateExpired.MarshalText()
	if string(b) != "expired" {
		t.Errorf("got %q", b)
	}
	if StateCounting.String() != "counting" {
		t.Errorf("got %q", StateCounting.String())
	}

	var s State
	if err := s.UnmarshalText([]byte("expired")); err != nil || s != StateExpired {
		t.Errorf("UnmarshalText(expired) = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("paused")); err == nil {
		t.Error("expected error for unknown state")
	}
}
