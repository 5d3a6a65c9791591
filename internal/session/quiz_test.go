package session

import (
	"errors"
	"sync"
	"testing"
)

func fourQuestions() []QuizQuestion {
	mk := func(prompt string, correct Letter, topic string) QuizQuestion {
		return QuizQuestion{
			Prompt:      prompt,
			SubjectArea: "Biology",
			Options: map[Letter]string{
				LetterA: "first", LetterB: "second", LetterC: "third", LetterD: "fourth",
			},
			Correct:     correct,
			Rationale:   "because " + prompt,
			Source:      "Textbook ch. 2",
			ReviewTopic: topic,
		}
	}
	return []QuizQuestion{
		mk("q1", LetterA, "cells"),
		mk("q2", LetterC, "organelles"),
		mk("q3", LetterB, "membranes"),
		mk("q4", LetterD, "enzymes"),
	}
}

func testQuiz(t *testing.T, questions []QuizQuestion) (*Registry, *Quiz, *recorder) {
	t.Helper()
	r := NewRegistry()
	h := mustAcquire(t, r, "42", KindQuiz)
	rec := &recorder{}
	q := NewQuiz(h, questions, rec)
	q.Start()
	return r, q, rec
}

func TestQuiz_Scenario(t *testing.T) {
	r, q, rec := testQuiz(t, fourQuestions())

	for _, l := range []Letter{LetterA, LetterA, LetterB, LetterD} {
		if err := q.Answer(l); err != nil {
			t.Fatalf("Answer(%s): %v", l, err)
		}
		if got := len(q.Answers()); got != q.Cursor() {
			t.Fatalf("len(answers) = %d, cursor = %d", got, q.Cursor())
		}
	}

	if q.Status() != StatusCompleted {
		t.Fatalf("Status() = %s, want completed", q.Status())
	}
	if r.Len() != 0 {
		t.Errorf("registry Len() = %d, want 0", r.Len())
	}

	events := rec.snapshot()
	done, ok := events[len(events)-1].(QuizCompleted)
	if !ok {
		t.Fatalf("last event = %T, want QuizCompleted", events[len(events)-1])
	}
	if done.Score != 3 || done.Total != 4 {
		t.Errorf("score = %d/%d, want 3/4", done.Score, done.Total)
	}

	view := done.Results
	if _, err := view.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	page, _ := view.Current()
	if page.Number != 2 || page.Correct {
		t.Errorf("page = %+v, want number 2 marked incorrect", page)
	}
	if page.Given != LetterA || page.Question.Correct != LetterC {
		t.Errorf("given/correct = %s/%s, want A/C", page.Given, page.Question.Correct)
	}
	if page.Question.Rationale != "because q2" || page.Question.ReviewTopic != "organelles" {
		t.Errorf("page question = %+v, want stored rationale and topic", page.Question)
	}
}

func TestQuiz_ScoreMatchesAnswers(t *testing.T) {
	questions := fourQuestions()
	answers := []Letter{LetterB, LetterC, LetterB, LetterA}

	res := ScoreQuiz(questions, answers)

	want := 0
	for i := range answers {
		if answers[i] == questions[i].Correct {
			want++
		}
	}
	if res.Score != want {
		t.Errorf("Score = %d, want %d", res.Score, want)
	}
	if res.Percent() != 50 {
		t.Errorf("Percent() = %v, want 50", res.Percent())
	}
}

func TestQuiz_AnswerAtRejectsStaleAndFuture(t *testing.T) {
	_, q, rec := testQuiz(t, fourQuestions())

	if err := q.AnswerAt(0, LetterA); err != nil {
		t.Fatalf("AnswerAt(0): %v", err)
	}
	if err := q.AnswerAt(0, LetterB); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("duplicate AnswerAt(0) = %v, want ErrInvalidTransition", err)
	}
	if err := q.AnswerAt(3, LetterB); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("AnswerAt(3) = %v, want ErrInvalidTransition", err)
	}
	if got := q.Answers(); len(got) != 1 || got[0] != LetterA {
		t.Errorf("Answers() = %v, want [A]", got)
	}

	answered := 0
	for _, ev := range rec.snapshot() {
		if _, ok := ev.(QuestionAnswered); ok {
			answered++
		}
	}
	if answered != 1 {
		t.Errorf("QuestionAnswered events = %d, want 1", answered)
	}
}

func TestQuiz_InvalidLetter(t *testing.T) {
	_, q, _ := testQuiz(t, fourQuestions())

	if err := q.Answer(Letter("E")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Answer(E) = %v, want ErrInvalidInput", err)
	}
	if q.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", q.Cursor())
	}
}

func TestQuiz_AnswerAfterCompletion(t *testing.T) {
	_, q, _ := testQuiz(t, fourQuestions()[:1])

	if err := q.Answer(LetterA); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if err := q.Answer(LetterA); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Answer after completion = %v, want ErrSessionClosed", err)
	}
	res, ok := q.Result()
	if !ok || res.Score != 1 {
		t.Errorf("Result() = %+v, %v; want score 1", res, ok)
	}
}

func TestQuiz_Expire(t *testing.T) {
	r, q, rec := testQuiz(t, fourQuestions())
	if err := q.Answer(LetterA); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	q.Expire()
	q.Expire()

	if q.Status() != StatusCancelled {
		t.Errorf("Status() = %s, want cancelled", q.Status())
	}
	if r.Len() != 0 {
		t.Errorf("registry Len() = %d, want 0", r.Len())
	}
	if _, ok := q.Result(); ok {
		t.Error("expired quiz has a result")
	}

	cancelled := 0
	for _, ev := range rec.snapshot() {
		if _, ok := ev.(SessionCancelled); ok {
			cancelled++
		}
	}
	if cancelled != 1 {
		t.Errorf("SessionCancelled events = %d, want 1", cancelled)
	}
}

func TestParseLetter(t *testing.T) {
	tests := []struct {
		in      string
		want    Letter
		wantErr bool
	}{
		{"a", LetterA, false},
		{"B", LetterB, false},
		{" c ", LetterC, false},
		{"d", LetterD, false},
		{"e", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLetter(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLetter(%q) = %q, %v; want %q, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestQuiz_EmptyQuizRejectsAnswers(t *testing.T) {
	r := NewRegistry()
	q := NewQuiz(mustAcquire(t, r, "42", KindQuiz), nil, nil)

	if err := q.Answer(LetterA); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Answer on empty quiz = %v, want ErrInvalidTransition", err)
	}
	if err := q.AnswerAt(0, LetterA); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("AnswerAt(0) on empty quiz = %v, want ErrInvalidTransition", err)
	}
	if n := len(q.Answers()); n != 0 {
		t.Errorf("len(answers) = %d, want 0", n)
	}

	q.Start()
	if q.Status() != StatusCompleted {
		t.Errorf("Status() = %s, want completed", q.Status())
	}
}

func TestQuiz_ConcurrentAnswers(t *testing.T) {
	questions := make([]QuizQuestion, 0, 40)
	for range 10 {
		questions = append(questions, fourQuestions()...)
	}
	_, q, _ := testQuiz(t, questions)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				if g%2 == 0 {
					_ = q.Answer(LetterA)
				} else {
					_ = q.AnswerAt(i%len(questions), LetterB)
				}
				if n, c := len(q.Answers()), q.Cursor(); n > len(questions) || c > len(questions) {
					t.Errorf("len(answers) = %d, cursor = %d past %d questions", n, c, len(questions))
					return
				}
			}
		}()
	}
	wg.Wait()

	if q.Status() != StatusCompleted {
		t.Fatalf("Status() = %s, want completed", q.Status())
	}
	if n, c := len(q.Answers()), q.Cursor(); n != len(questions) || c != n {
		t.Errorf("len(answers) = %d, cursor = %d; want %d", n, c, len(questions))
	}
	res, ok := q.Result()
	if !ok || res.Total != len(questions) {
		t.Errorf("Result() = %+v, %v; want total %d", res, ok, len(questions))
	}
}
