package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Letter is a multiple-choice option key.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
)

// Letters lists the option keys in display order.
var Letters = []Letter{LetterA, LetterB, LetterC, LetterD}

// Valid reports whether l is one of A to D.
func (l Letter) Valid() bool {
	switch l {
	case LetterA, LetterB, LetterC, LetterD:
		return true
	}
	return false
}

// ParseLetter parses an option key, case-insensitively.
func ParseLetter(s string) (Letter, error) {
	l := Letter(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("option %q: %w", s, ErrInvalidInput)
	}
	return l, nil
}

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Prompt      string            `json:"prompt"`
	SubjectArea string            `json:"subject_area"`
	Axis        string            `json:"axis,omitempty"`
	Options     map[Letter]string `json:"options"`
	Correct     Letter            `json:"correct"`
	Rationale   string            `json:"rationale"`
	Source      string            `json:"source,omitempty"`
	ReviewTopic string            `json:"review_topic,omitempty"`
}

// Quiz collects exactly one answer per question, in order, then hands off to
// a ResultView.
type Quiz struct {
	handle *Handle
	obs    Observer
	stop   func() bool

	mu        sync.Mutex
	questions []QuizQuestion
	answers   []Letter
	status    Status
	result    *QuizResult
}

// NewQuiz builds a quiz bound to h and attaches it. Cancelling the handle
// terminates the quiz.
func NewQuiz(h *Handle, questions []QuizQuestion, obs Observer) *Quiz {
	q := &Quiz{
		handle:    h,
		obs:       orNop(obs),
		questions: append([]QuizQuestion(nil), questions...),
	}
	q.mu.Lock()
	q.stop = context.AfterFunc(h.Context(), func() {
		q.terminate("cancelled")
	})
	q.mu.Unlock()
	h.Attach(q)
	return q
}

// Handle returns the registry handle of the quiz.
func (q *Quiz) Handle() *Handle { return q.handle }

// Start presents the first question. An empty quiz completes immediately.
func (q *Quiz) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.status != StatusActive {
		return
	}
	if len(q.questions) == 0 {
		q.completeLocked()
		return
	}
	q.showLocked()
}

// Answer records l for the question at the cursor.
func (q *Quiz) Answer(l Letter) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.answerLocked(len(q.answers), l)
}

// AnswerAt records l for question index. It rejects answers for questions
// already answered or not yet shown, so a stale button press cannot be
// counted twice.
func (q *Quiz) AnswerAt(index int, l Letter) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.answerLocked(index, l)
}

func (q *Quiz) answerLocked(index int, l Letter) error {
	if !l.Valid() {
		return fmt.Errorf("option %q: %w", string(l), ErrInvalidInput)
	}
	if q.status != StatusActive {
		return closedError(KindQuiz, "answer")
	}

	cursor := len(q.answers)
	if cursor >= len(q.questions) {
		return &TransitionError{
			Kind:  KindQuiz,
			Input: fmt.Sprintf("answer question %d", index+1),
			State: "no question is showing",
		}
	}
	switch {
	case index < cursor:
		return &TransitionError{
			Kind:  KindQuiz,
			Input: fmt.Sprintf("answer question %d", index+1),
			State: "it is already answered",
		}
	case index > cursor:
		return &TransitionError{
			Kind:  KindQuiz,
			Input: fmt.Sprintf("answer question %d", index+1),
			State: fmt.Sprintf("question %d is pending", cursor+1),
		}
	}

	q.answers = append(q.answers, l)
	q.obs.Notify(QuestionAnswered{Ref: refOf(q.handle), Index: index, Letter: l})

	if len(q.answers) == len(q.questions) {
		q.completeLocked()
		return nil
	}
	q.showLocked()
	return nil
}

// Expire terminates the quiz after an inactivity timeout.
func (q *Quiz) Expire() {
	q.terminate("expired")
}

// Cancel terminates the quiz.
func (q *Quiz) Cancel() {
	q.terminate("cancelled")
}

// Status returns the lifecycle status.
func (q *Quiz) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.status
}

// Cursor returns the index of the next question to answer.
func (q *Quiz) Cursor() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.answers)
}

// Answers returns the answers recorded so far.
func (q *Quiz) Answers() []Letter {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Letter(nil), q.answers...)
}

// Current returns the question at the cursor, if any remain.
func (q *Quiz) Current() (QuizQuestion, int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := len(q.answers)
	if i >= len(q.questions) {
		return QuizQuestion{}, i, false
	}
	return q.questions[i], i, true
}

// Result returns the scored result once the quiz has completed.
func (q *Quiz) Result() (*QuizResult, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.result, q.result != nil
}

func (q *Quiz) showLocked() {
	i := len(q.answers)
	q.obs.Notify(QuestionShown{
		Ref:      refOf(q.handle),
		Index:    i,
		Total:    len(q.questions),
		Question: q.questions[i],
	})
}

func (q *Quiz) completeLocked() {
	q.status = StatusCompleted
	q.stop()
	q.handle.Release()

	res := ScoreQuiz(q.questions, q.answers)
	q.result = &res
	q.obs.Notify(QuizCompleted{
		Ref:     refOf(q.handle),
		Score:   res.Score,
		Total:   res.Total,
		Results: NewResultView(res),
	})
}

func (q *Quiz) terminate(reason string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.status != StatusActive {
		return
	}
	q.status = StatusCancelled
	q.stop()
	q.handle.Release()
	q.obs.Notify(SessionCancelled{Ref: refOf(q.handle), Reason: reason})
}
