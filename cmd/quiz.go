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

var quizCmd = &cobra.Command{
	Use:   "quiz <topic>",
	Short: "Take an AI-generated multiple-choice quiz on a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuiz,
}

func init() {
	quizCmd.Flags().IntP("count", "n", 5, "Number of questions")
	quizCmd.Flags().Duration("idle", 10*time.Minute, "End the quiz after this long without input (0 disables)")
}

func runQuiz(cmd *cobra.Command, args []string) error {
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

	fmt.Fprintf(out, "Generating %d questions about %s...\n", count, topic)
	if _, err := rt.service.StartQuiz(ctx, rt.owner, topic, count); err != nil {
		return fmt.Errorf("start quiz: %w", err)
	}

	in := newLineSource(cmd.InOrStdin(), idle)
	if err := quizLoop(ctx, rt.service, rt.owner, in, out); err != nil {
		return err
	}
	return resultsLoop(ctx, rt.service, rt.owner, in, out)
}

// quizLoop routes answers to owner's quiz until it terminates.
func quizLoop(ctx context.Context, svc *study.Service, owner session.OwnerID, in *lineSource, out io.Writer) error {
	for svc.Active(owner, session.KindQuiz) {
		line, status := in.next(ctx)
		switch status {
		case inputIdle:
			return svc.Expire(owner, session.KindQuiz)
		case inputClosed:
			return svc.Cancel(owner, session.KindQuiz)
		}

		if strings.EqualFold(line, "q") {
			return svc.Cancel(owner, session.KindQuiz)
		}
		letter, err := session.ParseLetter(line)
		if err != nil {
			fmt.Fprint(out, "Answer with A, B, C or D: ")
			continue
		}
		if err := svc.Answer(owner, letter); err != nil && !errors.Is(err, session.ErrNoSession) {
			fmt.Fprintf(out, "%v: ", err)
		}
	}
	return nil
}

// resultsLoop pages through owner's graded answers. It returns at once
// when the quiz ended without results.
func resultsLoop(ctx context.Context, svc *study.Service, owner session.OwnerID, in *lineSource, out io.Writer) error {
	view, err := svc.Results(owner)
	if err != nil {
		return nil
	}
	defer svc.CloseResults(owner)

	page, ok := view.Current()
	if !ok {
		return nil
	}
	printResultPage(out, page, view.State())

	for {
		line, status := in.next(ctx)
		if status != inputLine {
			return nil
		}
		switch strings.ToLower(line) {
		case "n", "":
			page, err = svc.NextPage(owner)
		case "p":
			page, err = svc.PreviousPage(owner)
		case "q":
			return nil
		default:
			fmt.Fprint(out, "[n] next  [p] previous  [q] done: ")
			continue
		}
		if errors.Is(err, session.ErrOutOfRange) {
			if strings.ToLower(line) != "p" {
				return nil
			}
			fmt.Fprint(out, "Already at the first answer: ")
			continue
		}
		if err != nil {
			return err
		}
		printResultPage(out, page, view.State())
	}
}
