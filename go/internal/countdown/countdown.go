package countdown

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ExpiredMessage is displayed once kickoff has been reached.
const ExpiredMessage = "Game Time!"

// TickInterval is how often a counting countdown recomputes its display.
const TickInterval = time.Second

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a fake clock.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) clockwork.Ticker
}

// State is the countdown's position in its state machine.
type State int

const (
	StateCounting State = iota
	StateExpired
)

func (s State) String() string {
	if s == StateExpired {
		return "expired"
	}
	return "counting"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "counting":
		*s = StateCounting
	case "expired":
		*s = StateExpired
	default:
		return fmt.Errorf("unknown countdown state %q", text)
	}
	return nil
}

// Snapshot is the observable state of a countdown at one evaluation.
type Snapshot struct {
	Target  time.Time `json:"target"`
	Display string    `json:"display"`
	State   State     `json:"state"`

	// Transition is set on the single update that moves a countdown from counting to expired.
	Transition bool `json:"transition,omitempty"`
}

// Option configures a Countdown.
type Option func(*Countdown)

// WithOnUpdate registers fn to receive a snapshot after every write of the display.
// fn runs while the countdown is locked and must not call back into it.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(c *Countdown) {
		c.onUpdate = fn
	}
}

// WithInterval overrides TickInterval.
func WithInterval(d time.Duration) Option {
	return func(c *Countdown) {
		if d > 0 {
			c.interval = d
		}
	}
}

// Countdown counts down to a target time, refreshing its display once per interval.
// Each instance owns at most one ticker; it is released on expiry, on Dispose and on SetTarget.
type Countdown struct {
	clock    Clock
	interval time.Duration
	onUpdate func(Snapshot)

	mu       sync.Mutex
	target   time.Time
	display  string
	state    State
	disposed bool

	// generation is bumped whenever the current ticker is released; ticks
	// carrying an older generation are discarded.
	generation uint64
	ticker     clockwork.Ticker
	stop       chan struct{}
}

// Evaluate returns the display and state of a countdown to target as seen at now.
// A zero target is treated as already reached.
func Evaluate(target, now time.Time) (string, State) {
	remaining := target.Sub(now)
	if target.IsZero() || remaining <= 0 {
		return ExpiredMessage, StateExpired
	}
	return Format(remaining), StateCounting
}

// New creates a countdown to target and evaluates it immediately.
// A target that has already passed starts, and stays, expired.
func New(clock Clock, target time.Time, opts ...Option) *Countdown {
	c := &Countdown{
		clock:    clock,
		interval: TickInterval,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	c.startLocked(target)
	c.mu.Unlock()
	return c
}

// SetTarget points the countdown at a new target.
// The previous ticker is released before the new target is evaluated.
func (c *Countdown) SetTarget(target time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || target.Equal(c.target) {
		return
	}
	c.startLocked(target)
}

// Dispose stops the countdown. After Dispose returns the display is never written again.
func (c *Countdown) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	c.disposed = true
	c.releaseLocked()
}

// Display returns the current countdown text.
func (c *Countdown) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

// State returns the current state.
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Target returns the kickoff the countdown is tracking.
func (c *Countdown) Target() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Snapshot returns the current observable state.
func (c *Countdown) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(false)
}

// Disposed reports whether Dispose has been called.
func (c *Countdown) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

func (c *Countdown) startLocked(target time.Time) {
	c.releaseLocked()
	c.target = target

	if c.evaluateLocked(true) == StateExpired {
		return
	}

	c.ticker = c.clock.NewTicker(c.interval)
	c.stop = make(chan struct{})
	go c.run(c.generation, c.ticker, c.stop)
}

// releaseLocked stops the current ticker, if any, and invalidates its pending ticks.
func (c *Countdown) releaseLocked() {
	c.generation++
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Countdown) run(generation uint64, ticker clockwork.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if !c.tick(generation) {
				return
			}
		}
	}
}

// tick recomputes the display for a wake-up of the given generation.
// It reports whether the ticker should keep running.
func (c *Countdown) tick(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || generation != c.generation {
		return false
	}
	if c.evaluateLocked(false) == StateExpired {
		c.releaseLocked()
		return false
	}
	return true
}

func (c *Countdown) evaluateLocked(initial bool) State {
	previous := c.state

	c.display, c.state = Evaluate(c.target, c.clock.Now())

	if c.onUpdate != nil {
		transition := !initial && previous == StateCounting && c.state == StateExpired
		c.onUpdate(c.snapshotLocked(transition))
	}
	return c.state
}

func (c *Countdown) snapshotLocked(transition bool) Snapshot {
	return Snapshot{
		Target:     c.target,
		Display:    c.display,
		State:      c.state,
		Transition: transition,
	}
}
