package content

import (
	"fmt"
	"strings"
)

const explanationSystemPrompt = `You are a patient study tutor explaining a topic to a student.

Rules:
- Explain the topic clearly in a few short paragraphs, starting from the basic idea.
- Give one concrete example.
- The text will also be read aloud. Wrap the whole explanation in <speak> tags and use <break time="500ms"/> between paragraphs.
- Do not use Markdown headings, lists or code blocks.`

const flashcardsSystemPrompt = `You are a study tutor writing flash cards for spaced review.

Rules:
- Each card has a short question or concept on the front and a concise answer on the back.
- Cover distinct facts; do not repeat a card.
- review_topic names the narrower sub-topic a student should revisit after missing the card.
- Return exactly the number of cards requested.`

const quizSystemPrompt = `You are a study tutor writing a multiple-choice practice quiz.

Rules:
- Every question has exactly four options labelled A, B, C and D, and exactly one is correct.
- correct is the letter of the right option.
- Distractors should reflect common misconceptions, not random values.
- rationale explains why the correct option is right in one or two sentences.
- source cites where the fact comes from, or is empty when there is no citable source.
- review_topic names the sub-topic to revisit after a wrong answer.
- Return exactly the number of questions requested.`

func buildExplanationMessage(topic string) string {
	return fmt.Sprintf("Topic: %s\n\nExplain this topic.", topic)
}

func buildFlashcardsMessage(topic string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Number of cards: %d\n", count)
	b.WriteString("\nRespond with a JSON object whose \"cards\" array holds the cards.")
	return b.String()
}

func buildQuizMessage(topic string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Number of questions: %d\n", count)
	b.WriteString("\nRespond with a JSON object whose \"questions\" array holds the questions.")
	return b.String()
}
