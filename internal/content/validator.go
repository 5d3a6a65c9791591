package content

import (
	"fmt"

	"github.com/abhisek/studybuddy/internal/session"
)

// Batch is one generated set of cards or questions under validation.
// Exactly one of Cards or Questions is populated.
type Batch struct {
	Topic     string
	Requested int
	Cards     []session.ReviewItem
	Questions []session.QuizQuestion
}

func (b *Batch) len() int {
	if b.Cards != nil {
		return len(b.Cards)
	}
	return len(b.Questions)
}

// Validator checks a generated batch. Implementations may normalize the
// batch in place (trim, truncate) and must be safe for concurrent use.
type Validator interface {
	Name() string
	Validate(b *Batch) *ValidationError
}

// StructuralValidator rejects items with empty required fields.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(b *Batch) *ValidationError {
	for i, c := range b.Cards {
		if c.Front == "" || c.Back == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("card %d has an empty front or back", i+1),
			}
		}
	}
	for i, q := range b.Questions {
		if q.Prompt == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d has an empty prompt", i+1),
			}
		}
		if q.Rationale == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d has an empty rationale", i+1),
			}
		}
	}
	return nil
}

// LetterValidator checks that every question offers options A-D and that
// its answer key names one of them.
type LetterValidator struct{}

func (v *LetterValidator) Name() string { return "letters" }

func (v *LetterValidator) Validate(b *Batch) *ValidationError {
	for i, q := range b.Questions {
		for _, l := range session.Letters {
			if q.Options[l] == "" {
				return &ValidationError{
					Validator: v.Name(),
					Message:   fmt.Sprintf("question %d is missing option %s", i+1, l),
				}
			}
		}
		if !q.Correct.Valid() {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d has answer key %q", i+1, q.Correct),
			}
		}
	}
	return nil
}

// CountValidator rejects batches shorter than requested and truncates
// longer ones.
type CountValidator struct{}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(b *Batch) *ValidationError {
	n := b.len()
	if n < b.Requested {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("got %d items, want %d", n, b.Requested),
		}
	}
	if b.Cards != nil {
		b.Cards = b.Cards[:b.Requested]
	}
	if b.Questions != nil {
		b.Questions = b.Questions[:b.Requested]
	}
	return nil
}
