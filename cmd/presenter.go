package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/session"
)

// linePresenter prints session events as plain lines for the
// non-interactive commands.
type linePresenter struct {
	w io.Writer
}

func (p linePresenter) Notify(ev session.Event) {
	switch ev := ev.(type) {
	case session.PhaseChanged:
		fmt.Fprintf(p.w, "[%s] %s for %s (cycle %d of %d, %d remaining)\n",
			ev.StartedAt.Local().Format("15:04"), ev.State.Phase, ev.Duration.Round(time.Second),
			ev.State.Index+1, ev.TotalCycles, ev.RemainingCycles)
	case session.CycleCompleted:
		fmt.Fprintf(p.w, "Done: %d focus sessions completed.\n", ev.FocusPhases)

	case session.CardShown:
		fmt.Fprintf(p.w, "\n── Card %d/%d ──\n%s\n", ev.Index+1, ev.Total, ev.Front)
		fmt.Fprint(p.w, "[enter] flip  [q] quit: ")
	case session.CardFlipped:
		fmt.Fprintf(p.w, "→ %s\n", ev.Item.Back)
		fmt.Fprint(p.w, "[y] got it  [n] missed it  [u] not sure  [q] quit: ")
	case session.ReviewCompleted:
		s := ev.Summary
		fmt.Fprintf(p.w, "\n── Summary: %d/%d correct (%.0f%%) ──\n", s.Correct, s.Total, s.Accuracy)
		if len(s.TopicsToReview) > 0 {
			fmt.Fprintf(p.w, "Review next: %s\n", strings.Join(s.TopicsToReview, "; "))
		}

	case session.QuestionShown:
		q := ev.Question
		fmt.Fprintf(p.w, "\n── Question %d/%d ──\n%s\n", ev.Index+1, ev.Total, q.Prompt)
		for _, l := range sortedLetters(q.Options) {
			fmt.Fprintf(p.w, "  %s) %s\n", l, q.Options[l])
		}
		fmt.Fprint(p.w, "Your answer [A-D, q to quit]: ")
	case session.QuizCompleted:
		fmt.Fprintf(p.w, "\n── Score: %d/%d ──\n", ev.Score, ev.Total)

	case session.SessionCancelled:
		fmt.Fprintf(p.w, "\n%s session ended (%s).\n", ev.Kind, ev.Reason)
	}
}

func sortedLetters(opts map[session.Letter]string) []session.Letter {
	letters := make([]session.Letter, 0, len(opts))
	for l := range opts {
		letters = append(letters, l)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return letters
}

func printResultPage(w io.Writer, page session.ResultPage, state session.PagerState) {
	q := page.Question
	mark := "✓"
	if !page.Correct {
		mark = "✗"
	}
	given := string(page.Given)
	if given == "" {
		given = "-"
	}
	fmt.Fprintf(w, "\n── Answer %d/%d %s ──\n%s\n", page.Number, state.Total, mark, q.Prompt)
	fmt.Fprintf(w, "You: %s   Correct: %s) %s\n", given, q.Correct, q.Options[q.Correct])
	if q.Rationale != "" {
		fmt.Fprintf(w, "Why: %s\n", q.Rationale)
	}

	var nav []string
	if !state.First {
		nav = append(nav, "[p] previous")
	}
	if !state.Last {
		nav = append(nav, "[n] next")
	}
	nav = append(nav, "[q] done")
	fmt.Fprintf(w, "%s: ", strings.Join(nav, "  "))
}
