package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/session"
	"github.com/abhisek/studybuddy/internal/study"
)

var flashcardsCmd = &cobra.Command{
	Use:   "flashcards <topic>",
	Short: "Review AI-generated flash cards on a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFlashcards,
}

func init() {
	flashcardsCmd.Flags().IntP("count", "n", 5, "Number of cards")
	flashcardsCmd.Flags().Duration("idle", 10*time.Minute, "End the review after this long without input (0 disables)")
}

func runFlashcards(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	count, _ := cmd.Flags().GetInt("count")
	idle, _ := cmd.Flags().GetDuration("idle")
	topic := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	rt, err := setup(cmd, linePresenter{w: out})
	if err != nil {
		return err
	}
	defer rt.Close()

	fmt.Fprintf(out, "Generating %d cards about %s...\n", count, topic)
	if _, err := rt.service.StartReview(ctx, rt.owner, topic, count); err != nil {
		return fmt.Errorf("start review: %w", err)
	}

	return reviewLoop(ctx, rt.service, rt.owner, newLineSource(cmd.InOrStdin(), idle), out)
}

// reviewLoop routes input lines to owner's deck until it terminates.
func reviewLoop(ctx context.Context, svc *study.Service, owner session.OwnerID, in *lineSource, out io.Writer) error {
	for svc.Active(owner, session.KindReviewDeck) {
		line, status := in.next(ctx)
		switch status {
		case inputIdle:
			return svc.Expire(owner, session.KindReviewDeck)
		case inputClosed:
			return svc.Cancel(owner, session.KindReviewDeck)
		}

		var err error
		switch strings.ToLower(line) {
		case "", "f", "flip":
			err = svc.Flip(owner)
		case "y", "yes":
			err = svc.Assess(owner, session.OutcomeCorrect)
		case "n", "no":
			err = svc.Assess(owner, session.OutcomeIncorrect)
		case "u", "?":
			err = svc.Assess(owner, session.OutcomeUnknown)
		case "q", "quit":
			err = svc.Cancel(owner, session.KindReviewDeck)
		default:
			fmt.Fprint(out, "Unknown command. Try again: ")
			continue
		}

		switch {
		case err == nil:
		case errors.Is(err, session.ErrNoSession):
			return nil
		case errors.Is(err, session.ErrInvalidTransition):
			fmt.Fprint(out, "Not now. Flip first, then grade: ")
		default:
			fmt.Fprintf(out, "%v: ", err)
		}
	}
	return nil
}
