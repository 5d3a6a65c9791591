package study

import (
	"github.com/abhisek/studybuddy/internal/session"
)

// storeResults keeps the latest quiz result view per owner.
func (s *Service) storeResults(owner session.OwnerID, v *session.ResultView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.results[owner]; ok && prev != v {
		prev.Close()
	}
	s.results[owner] = v
}

func (s *Service) resultView(owner session.OwnerID) (*session.ResultView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.results[owner]
	if !ok {
		return nil, noSession(owner, session.KindQuiz)
	}
	return v, nil
}

// Results returns owner's latest quiz result view.
func (s *Service) Results(owner session.OwnerID) (*session.ResultView, error) {
	return s.resultView(owner)
}

// NextPage moves owner's result view forward one page.
func (s *Service) NextPage(owner session.OwnerID) (session.ResultPage, error) {
	v, err := s.resultView(owner)
	if err != nil {
		return session.ResultPage{}, err
	}
	return v.Next()
}

// PreviousPage moves owner's result view back one page.
func (s *Service) PreviousPage(owner session.OwnerID) (session.ResultPage, error) {
	v, err := s.resultView(owner)
	if err != nil {
		return session.ResultPage{}, err
	}
	return v.Previous()
}

// CloseResults closes and forgets owner's result view.
func (s *Service) CloseResults(owner session.OwnerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.results[owner]
	if !ok {
		return noSession(owner, session.KindQuiz)
	}
	v.Close()
	delete(s.results, owner)
	return nil
}
