package study

import (
	"fmt"

	"github.com/abhisek/studybuddy/internal/session"
)

func noSession(owner session.OwnerID, kind session.Kind) error {
	return fmt.Errorf("%s for %s: %w", kind, owner, session.ErrNoSession)
}

// attached returns the live session in owner's kind slot. A reserved slot
// whose content is still being generated is not routable.
func (s *Service) attached(owner session.OwnerID, kind session.Kind) (*session.Handle, any, error) {
	h, ok := s.reg.Lookup(owner, kind)
	if !ok {
		return nil, nil, noSession(owner, kind)
	}
	return h, h.Session(), nil
}

func (s *Service) deck(owner session.OwnerID) (*session.ReviewDeck, error) {
	_, sess, err := s.attached(owner, session.KindReviewDeck)
	if err != nil {
		return nil, err
	}
	d, ok := sess.(*session.ReviewDeck)
	if !ok {
		return nil, noSession(owner, session.KindReviewDeck)
	}
	return d, nil
}

func (s *Service) quiz(owner session.OwnerID) (*session.Quiz, error) {
	_, sess, err := s.attached(owner, session.KindQuiz)
	if err != nil {
		return nil, err
	}
	q, ok := sess.(*session.Quiz)
	if !ok {
		return nil, noSession(owner, session.KindQuiz)
	}
	return q, nil
}

// Flip reveals the back of owner's current flash card.
func (s *Service) Flip(owner session.OwnerID) error {
	d, err := s.deck(owner)
	if err != nil {
		return err
	}
	return d.Flip()
}

// Assess grades owner's flipped flash card.
func (s *Service) Assess(owner session.OwnerID, o session.Outcome) error {
	d, err := s.deck(owner)
	if err != nil {
		return err
	}
	return d.Assess(o)
}

// Answer records l for owner's current quiz question.
func (s *Service) Answer(owner session.OwnerID, l session.Letter) error {
	q, err := s.quiz(owner)
	if err != nil {
		return err
	}
	return q.Answer(l)
}

// AnswerAt records l for question index of owner's quiz. Transports that
// attach the question index to each button use it to reject stale presses.
func (s *Service) AnswerAt(owner session.OwnerID, index int, l session.Letter) error {
	q, err := s.quiz(owner)
	if err != nil {
		return err
	}
	return q.AnswerAt(index, l)
}

// Cancel terminates owner's session of the given kind. A slot that is still
// generating content is signalled, which aborts the generation.
func (s *Service) Cancel(owner session.OwnerID, kind session.Kind) error {
	h, sess, err := s.attached(owner, kind)
	if err != nil {
		return err
	}
	switch sess := sess.(type) {
	case *session.ReviewDeck:
		sess.Cancel()
	case *session.Quiz:
		sess.Cancel()
	default:
		h.Cancel()
	}
	return nil
}

// Expire terminates owner's session after a transport inactivity timeout.
func (s *Service) Expire(owner session.OwnerID, kind session.Kind) error {
	h, sess, err := s.attached(owner, kind)
	if err != nil {
		return err
	}
	switch sess := sess.(type) {
	case *session.ReviewDeck:
		sess.Expire()
	case *session.Quiz:
		sess.Expire()
	default:
		h.Cancel()
	}
	return nil
}

// Active reports whether owner holds a slot of the given kind.
func (s *Service) Active(owner session.OwnerID, kind session.Kind) bool {
	_, ok := s.reg.Lookup(owner, kind)
	return ok
}
