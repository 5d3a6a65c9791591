package session

import "time"

// Ref identifies the session an event belongs to.
type Ref struct {
	SessionID string
	Owner     OwnerID
	Kind      Kind
}

// Event is a state-change notification emitted by a session. The set of
// events is closed; only this package defines them.
type Event interface {
	EventRef() Ref
	isEvent()
}

// Observer receives session events. Events of a single session arrive in
// transition order, delivered while that session's lock is held; an observer
// must not call back into the same session synchronously.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Notify(ev Event) { f(ev) }

// Observers fans an event out to every observer in order.
type Observers []Observer

func (o Observers) Notify(ev Event) {
	for _, obs := range o {
		if obs != nil {
			obs.Notify(ev)
		}
	}
}

type nopObserver struct{}

func (nopObserver) Notify(Event) {}

func orNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}

// PhaseChanged is emitted when a timed cycle enters a new non-terminal phase.
type PhaseChanged struct {
	Ref
	State           CycleState
	Duration        time.Duration
	TotalCycles     int
	RemainingCycles int
	StartedAt       time.Time
}

// CycleCompleted is emitted when every focus cycle and break has elapsed.
type CycleCompleted struct {
	Ref
	FocusPhases int
}

// CardShown is emitted when a card's front is presented.
type CardShown struct {
	Ref
	Index    int
	Total    int
	Front    string
	Progress ReviewProgress
}

// CardFlipped is emitted when the back of the current card is revealed.
type CardFlipped struct {
	Ref
	Index    int
	Total    int
	Item     ReviewItem
	Progress ReviewProgress
}

// CardAssessed is emitted after the user grades a card.
type CardAssessed struct {
	Ref
	Index    int
	Outcome  Outcome
	Progress ReviewProgress
}

// ReviewCompleted is emitted when the last card has been assessed.
type ReviewCompleted struct {
	Ref
	Summary ReviewSummary
}

// QuestionShown is emitted when a quiz question is presented.
type QuestionShown struct {
	Ref
	Index    int
	Total    int
	Question QuizQuestion
}

// QuestionAnswered is emitted once per recorded answer.
type QuestionAnswered struct {
	Ref
	Index  int
	Letter Letter
}

// QuizCompleted is emitted when every question has been answered. Results
// is the browsable answer-review report.
type QuizCompleted struct {
	Ref
	Score   int
	Total   int
	Results *ResultView
}

// SessionCancelled is emitted when a session terminates without completing.
type SessionCancelled struct {
	Ref
	Reason string
}

func (e PhaseChanged) EventRef() Ref     { return e.Ref }
func (e CycleCompleted) EventRef() Ref   { return e.Ref }
func (e CardShown) EventRef() Ref        { return e.Ref }
func (e CardFlipped) EventRef() Ref      { return e.Ref }
func (e CardAssessed) EventRef() Ref     { return e.Ref }
func (e ReviewCompleted) EventRef() Ref  { return e.Ref }
func (e QuestionShown) EventRef() Ref    { return e.Ref }
func (e QuestionAnswered) EventRef() Ref { return e.Ref }
func (e QuizCompleted) EventRef() Ref    { return e.Ref }
func (e SessionCancelled) EventRef() Ref { return e.Ref }

func (PhaseChanged) isEvent()     {}
func (CycleCompleted) isEvent()   {}
func (CardShown) isEvent()        {}
func (CardFlipped) isEvent()      {}
func (CardAssessed) isEvent()     {}
func (ReviewCompleted) isEvent()  {}
func (QuestionShown) isEvent()    {}
func (QuestionAnswered) isEvent() {}
func (QuizCompleted) isEvent()    {}
func (SessionCancelled) isEvent() {}

func refOf(h *Handle) Ref {
	return Ref{SessionID: h.ID, Owner: h.Owner, Kind: h.Kind}
}
