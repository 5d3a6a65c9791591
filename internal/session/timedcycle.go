package session

import (
	"fmt"
	"sync"
	"time"
)

// Phase is the phase of a timed focus cycle.
type Phase int

const (
	PhaseFocus Phase = iota
	PhaseShortBreak
	PhaseLongBreak
	PhaseDone
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseFocus:
		return "focus"
	case PhaseShortBreak:
		return "short break"
	case PhaseLongBreak:
		return "long break"
	case PhaseDone:
		return "done"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can occur from p.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseCancelled
}

// CycleState is a timed cycle state. Index is the 0-based cycle counter and
// is meaningful for the non-terminal phases only.
type CycleState struct {
	Phase Phase
	Index int
}

func (s CycleState) String() string {
	if s.Phase.Terminal() {
		return s.Phase.String()
	}
	return fmt.Sprintf("%s(%d)", s.Phase, s.Index)
}

// LongBreakEvery is the number of focus phases between long breaks.
const LongBreakEvery = 4

// CycleConfig holds the durations of a timed cycle session.
type CycleConfig struct {
	Focus      time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
	Cycles     int
}

// DefaultCycleConfig returns the classic 25/5/15 configuration with four cycles.
func DefaultCycleConfig() CycleConfig {
	return CycleConfig{
		Focus:      25 * time.Minute,
		ShortBreak: 5 * time.Minute,
		LongBreak:  15 * time.Minute,
		Cycles:     4,
	}
}

// Validate checks that every duration is positive and at least one cycle is
// requested.
func (c CycleConfig) Validate() error {
	switch {
	case c.Cycles < 1:
		return fmt.Errorf("cycles must be at least 1, got %d: %w", c.Cycles, ErrInvalidInput)
	case c.Focus <= 0:
		return fmt.Errorf("focus duration must be positive: %w", ErrInvalidInput)
	case c.ShortBreak <= 0:
		return fmt.Errorf("short break duration must be positive: %w", ErrInvalidInput)
	case c.LongBreak <= 0:
		return fmt.Errorf("long break duration must be positive: %w", ErrInvalidInput)
	}
	return nil
}

// breakAfter returns the break state that follows Focus(i).
func breakAfter(i int) CycleState {
	n := i + 1
	if n%LongBreakEvery == 0 && n >= LongBreakEvery {
		return CycleState{Phase: PhaseLongBreak, Index: i}
	}
	return CycleState{Phase: PhaseShortBreak, Index: i}
}

func (c CycleConfig) duration(p Phase) time.Duration {
	switch p {
	case PhaseFocus:
		return c.Focus
	case PhaseShortBreak:
		return c.ShortBreak
	case PhaseLongBreak:
		return c.LongBreak
	}
	return 0
}

// TimedCycle alternates focus phases and breaks on a timer until every cycle
// has elapsed or the session is cancelled.
type TimedCycle struct {
	handle  *Handle
	cfg     CycleConfig
	sleeper Sleeper
	obs     Observer
	now     func() time.Time

	once sync.Once
	done chan struct{}

	mu          sync.Mutex
	state       CycleState
	focusPhases int
	terminal    bool
}

// NewTimedCycle builds a timed cycle bound to h. A nil sleeper uses the
// runtime timer and a nil observer discards events.
func NewTimedCycle(h *Handle, cfg CycleConfig, sleeper Sleeper, obs Observer) (*TimedCycle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	t := &TimedCycle{
		handle:  h,
		cfg:     cfg,
		sleeper: sleeper,
		obs:     orNop(obs),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	h.Attach(t)
	return t, nil
}

// Handle returns the registry handle of the session.
func (t *TimedCycle) Handle() *Handle { return t.handle }

// Config returns the session's durations.
func (t *TimedCycle) Config() CycleConfig { return t.cfg }

// State returns the current state.
func (t *TimedCycle) State() CycleState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// FocusPhases returns the number of focus phases entered so far.
func (t *TimedCycle) FocusPhases() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.focusPhases
}

// Done is closed once the session reaches Done or Cancelled.
func (t *TimedCycle) Done() <-chan struct{} { return t.done }

// Cancel requests cancellation. The running loop observes it at its current
// suspension point.
func (t *TimedCycle) Cancel() { t.handle.Cancel() }

// Start runs the session on its own goroutine.
func (t *TimedCycle) Start() {
	go t.Run()
}

// Run drives the session until it reaches a terminal state. Only the first
// call runs the loop; later calls wait for it.
func (t *TimedCycle) Run() {
	t.once.Do(t.loop)
	<-t.done
}

func (t *TimedCycle) loop() {
	ctx := t.handle.Context()

	for i := 0; i < t.cfg.Cycles; i++ {
		for _, st := range []CycleState{{Phase: PhaseFocus, Index: i}, breakAfter(i)} {
			if !t.enter(st) {
				return
			}
			if err := t.sleeper.Sleep(ctx, t.cfg.duration(st.Phase)); err != nil {
				reason := "cancelled"
				if ctx.Err() == nil {
					reason = "timer fault: " + err.Error()
				}
				t.finish(PhaseCancelled, reason)
				return
			}
		}
	}
	t.finish(PhaseDone, "")
}

// enter moves to st and reports it. If cancellation was signalled the
// session terminates instead and enter returns false.
func (t *TimedCycle) enter(st CycleState) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminal {
		return false
	}
	if t.handle.Context().Err() != nil {
		t.finishLocked(PhaseCancelled, "cancelled")
		return false
	}

	t.state = st
	if st.Phase == PhaseFocus {
		t.focusPhases++
	}
	t.obs.Notify(PhaseChanged{
		Ref:             refOf(t.handle),
		State:           st,
		Duration:        t.cfg.duration(st.Phase),
		TotalCycles:     t.cfg.Cycles,
		RemainingCycles: t.cfg.Cycles - st.Index - 1,
		StartedAt:       t.now(),
	})
	return true
}

func (t *TimedCycle) finish(p Phase, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finishLocked(p, reason)
}

func (t *TimedCycle) finishLocked(p Phase, reason string) {
	if t.terminal {
		return
	}
	t.terminal = true
	t.state = CycleState{Phase: p, Index: t.state.Index}
	t.handle.Release()

	ref := refOf(t.handle)
	if p == PhaseDone {
		t.obs.Notify(CycleCompleted{Ref: ref, FocusPhases: t.focusPhases})
	} else {
		t.obs.Notify(SessionCancelled{Ref: ref, Reason: reason})
	}
	close(t.done)
}
