package content

import "github.com/abhisek/studybuddy/internal/llm"

// FlashcardsSchema defines the response shape for flash card generation.
var FlashcardsSchema = &llm.Schema{
	Name:        "flashcards",
	Description: "A deck of question/answer flash cards about one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{
							"type":        "string",
							"description": "A short question or concept prompt",
						},
						"back": map[string]any{
							"type":        "string",
							"description": "The concise answer",
						},
						"review_topic": map[string]any{
							"type":        "string",
							"description": "The sub-topic to revisit if the learner misses this card",
						},
					},
					"required":             []any{"front", "back", "review_topic"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}

// QuizSchema defines the response shape for multiple-choice quiz generation.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "Multiple-choice questions with four options A-D and one correct answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt":       map[string]any{"type": "string"},
						"subject_area": map[string]any{"type": "string"},
						"axis":         map[string]any{"type": "string"},
						"options": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"A": map[string]any{"type": "string"},
								"B": map[string]any{"type": "string"},
								"C": map[string]any{"type": "string"},
								"D": map[string]any{"type": "string"},
							},
							"required":             []any{"A", "B", "C", "D"},
							"additionalProperties": false,
						},
						"correct": map[string]any{
							"type": "string",
							"enum": []any{"A", "B", "C", "D"},
						},
						"rationale": map[string]any{
							"type":        "string",
							"description": "Why the correct option is right",
						},
						"source": map[string]any{
							"type":        "string",
							"description": "Where the fact comes from, or empty",
						},
						"review_topic": map[string]any{"type": "string"},
					},
					"required": []any{
						"prompt", "subject_area", "axis", "options", "correct",
						"rationale", "source", "review_topic",
					},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
