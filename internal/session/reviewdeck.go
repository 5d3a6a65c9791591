package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// UnspecifiedTopic is recorded for an Unknown card without a review topic.
const UnspecifiedTopic = "unspecified topic"

// ReviewItem is one flash card.
type ReviewItem struct {
	Front       string `json:"front"`
	Back        string `json:"back"`
	ReviewTopic string `json:"review_topic,omitempty"`
}

// Outcome is the user's self-assessment of a flipped card.
type Outcome int

const (
	OutcomeCorrect Outcome = iota
	OutcomeIncorrect
	OutcomeUnknown
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// ParseOutcome parses "correct", "incorrect" or "unknown", case-insensitively.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correct":
		return OutcomeCorrect, nil
	case "incorrect":
		return OutcomeIncorrect, nil
	case "unknown":
		return OutcomeUnknown, nil
	}
	return 0, fmt.Errorf("outcome %q: %w", s, ErrInvalidInput)
}

// Status is the lifecycle status of an input-driven session.
type Status int

const (
	StatusActive Status = iota
	StatusCompleted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ReviewProgress is the running score of a review deck.
type ReviewProgress struct {
	Cursor    int
	Correct   int
	Incorrect int
}

// ReviewSummary is the completion report of a review deck.
type ReviewSummary struct {
	Total          int
	Correct        int
	Incorrect      int
	Accuracy       float64
	TopicsToReview []string
}

// ReviewDeck walks the user through a fixed deck of cards. Each card is
// shown, flipped, then self-assessed.
type ReviewDeck struct {
	handle *Handle
	obs    Observer
	stop   func() bool

	mu        sync.Mutex
	items     []ReviewItem
	cursor    int
	flipped   bool
	correct   int
	incorrect int
	topics    []string
	seen      map[string]struct{}
	status    Status
}

// NewReviewDeck builds a deck bound to h and attaches it. Cancelling the
// handle terminates the deck.
func NewReviewDeck(h *Handle, items []ReviewItem, obs Observer) *ReviewDeck {
	d := &ReviewDeck{
		handle: h,
		obs:    orNop(obs),
		items:  append([]ReviewItem(nil), items...),
		seen:   make(map[string]struct{}),
	}
	d.mu.Lock()
	d.stop = context.AfterFunc(h.Context(), func() {
		d.terminate("cancelled")
	})
	d.mu.Unlock()
	h.Attach(d)
	return d
}

// Handle returns the registry handle of the deck.
func (d *ReviewDeck) Handle() *Handle { return d.handle }

// Start shows the first card. An empty deck completes immediately.
func (d *ReviewDeck) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status != StatusActive {
		return
	}
	if len(d.items) == 0 {
		d.completeLocked()
		return
	}
	d.showLocked()
}

// Flip reveals the back of the current card.
func (d *ReviewDeck) Flip() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkActiveLocked("flip"); err != nil {
		return err
	}
	if d.cursor >= len(d.items) {
		return &TransitionError{Kind: KindReviewDeck, Input: "flip", State: "no card is showing"}
	}
	if d.flipped {
		return &TransitionError{Kind: KindReviewDeck, Input: "flip", State: "card already flipped"}
	}

	d.flipped = true
	d.obs.Notify(CardFlipped{
		Ref:      refOf(d.handle),
		Index:    d.cursor,
		Total:    len(d.items),
		Item:     d.items[d.cursor],
		Progress: d.progressLocked(),
	})
	return nil
}

// Assess grades the flipped card and advances to the next one.
func (d *ReviewDeck) Assess(o Outcome) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkActiveLocked("assess"); err != nil {
		return err
	}
	if d.cursor >= len(d.items) {
		return &TransitionError{Kind: KindReviewDeck, Input: "assess", State: "no card is showing"}
	}
	if !d.flipped {
		return &TransitionError{Kind: KindReviewDeck, Input: "assess", State: "card not flipped"}
	}

	switch o {
	case OutcomeCorrect:
		d.correct++
	case OutcomeIncorrect:
		d.incorrect++
	case OutcomeUnknown:
		d.incorrect++
		d.addTopicLocked(d.items[d.cursor].ReviewTopic)
	default:
		return fmt.Errorf("outcome %d: %w", o, ErrInvalidInput)
	}

	index := d.cursor
	d.cursor++
	d.flipped = false
	d.obs.Notify(CardAssessed{
		Ref:      refOf(d.handle),
		Index:    index,
		Outcome:  o,
		Progress: d.progressLocked(),
	})

	if d.cursor == len(d.items) {
		d.completeLocked()
		return nil
	}
	d.showLocked()
	return nil
}

// Expire terminates the deck after an inactivity timeout.
func (d *ReviewDeck) Expire() {
	d.terminate("expired")
}

// Cancel terminates the deck.
func (d *ReviewDeck) Cancel() {
	d.terminate("cancelled")
}

// Status returns the lifecycle status.
func (d *ReviewDeck) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Flipped reports whether the current card shows its back.
func (d *ReviewDeck) Flipped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flipped
}

// Progress returns the running score.
func (d *ReviewDeck) Progress() ReviewProgress {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.progressLocked()
}

// Current returns the card at the cursor, if any remain.
func (d *ReviewDeck) Current() (ReviewItem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cursor >= len(d.items) {
		return ReviewItem{}, false
	}
	return d.items[d.cursor], true
}

// Summary returns the score so far. Accuracy is the share of correct cards
// over the whole deck, as a percentage.
func (d *ReviewDeck) Summary() ReviewSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summaryLocked()
}

func (d *ReviewDeck) summaryLocked() ReviewSummary {
	s := ReviewSummary{
		Total:          len(d.items),
		Correct:        d.correct,
		Incorrect:      d.incorrect,
		TopicsToReview: append([]string(nil), d.topics...),
	}
	if s.Total > 0 {
		s.Accuracy = float64(d.correct) / float64(s.Total) * 100
	}
	return s
}

func (d *ReviewDeck) progressLocked() ReviewProgress {
	return ReviewProgress{Cursor: d.cursor, Correct: d.correct, Incorrect: d.incorrect}
}

func (d *ReviewDeck) checkActiveLocked(op string) error {
	if d.status != StatusActive {
		return closedError(KindReviewDeck, op)
	}
	return nil
}

func (d *ReviewDeck) addTopicLocked(topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = UnspecifiedTopic
	}
	if _, dup := d.seen[topic]; dup {
		return
	}
	d.seen[topic] = struct{}{}
	d.topics = append(d.topics, topic)
}

func (d *ReviewDeck) showLocked() {
	d.obs.Notify(CardShown{
		Ref:      refOf(d.handle),
		Index:    d.cursor,
		Total:    len(d.items),
		Front:    d.items[d.cursor].Front,
		Progress: d.progressLocked(),
	})
}

func (d *ReviewDeck) completeLocked() {
	d.status = StatusCompleted
	d.stop()
	d.handle.Release()
	d.obs.Notify(ReviewCompleted{Ref: refOf(d.handle), Summary: d.summaryLocked()})
}

func (d *ReviewDeck) terminate(reason string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status != StatusActive {
		return
	}
	d.status = StatusCancelled
	d.stop()
	d.handle.Release()
	d.obs.Notify(SessionCancelled{Ref: refOf(d.handle), Reason: reason})
}
