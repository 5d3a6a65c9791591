package content

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every generated batch; the first failure
	// stops the pipeline.
	Validators []Validator

	// Token budgets per request kind.
	ExplanationMaxTokens int
	FlashcardsMaxTokens  int
	QuizMaxTokens        int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&LetterValidator{},
			&CountValidator{},
		},
		ExplanationMaxTokens: 1024,
		FlashcardsMaxTokens:  2048,
		QuizMaxTokens:        4096,
		Temperature:          0.7,
	}
}
