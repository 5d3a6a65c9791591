package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/session"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run focus cycles with short and long breaks",
	RunE:  runFocus,
}

func init() {
	focusCmd.Flags().Duration("work", 0, "Focus phase length (default from STUDYBUDDY_FOCUS)")
	focusCmd.Flags().Duration("short-break", 0, "Short break length")
	focusCmd.Flags().Duration("long-break", 0, "Long break length")
	focusCmd.Flags().Int("cycles", 0, "Number of focus cycles")
}

func runFocus(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rt, err := setup(cmd, linePresenter{w: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg.Focus.CycleConfig()
	if d, _ := cmd.Flags().GetDuration("work"); d > 0 {
		cfg.Focus = d
	}
	if d, _ := cmd.Flags().GetDuration("short-break"); d > 0 {
		cfg.ShortBreak = d
	}
	if d, _ := cmd.Flags().GetDuration("long-break"); d > 0 {
		cfg.LongBreak = d
	}
	if n, _ := cmd.Flags().GetInt("cycles"); n > 0 {
		cfg.Cycles = n
	}

	tc, err := rt.service.StartFocus(ctx, rt.owner, cfg)
	if err != nil {
		return fmt.Errorf("start focus: %w", err)
	}

	select {
	case <-tc.Done():
	case <-ctx.Done():
		_ = rt.service.Cancel(rt.owner, session.KindTimedCycle)
		<-tc.Done()
	}
	return nil
}
