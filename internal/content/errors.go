package content

import "fmt"

// ProviderError reports a content generation failure for one topic. It
// wraps the underlying LLM, parse or validation error.
type ProviderError struct {
	Op    string // "explanation", "flashcards" or "quiz"
	Topic string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("generate %s for %q: %v", e.Op, e.Topic, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ValidationError describes why a generated batch failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
