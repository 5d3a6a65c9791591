package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/screens/history"
	"github.com/abhisek/studybuddy/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent study sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		all, _ := cmd.Flags().GetBool("all")
		owner, _ := cmd.Flags().GetString("owner")
		if all {
			owner = ""
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QuerySessionEvents(cmd.Context(), store.QueryOpts{
			Owner: owner,
			Limit: limit,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		fmt.Printf("%-12s  %-10s %-9s %-24s %s\n", "Time", "Kind", "Action", "Topic", "Result")
		fmt.Println(strings.Repeat("─", 72))
		for _, e := range events {
			line := history.Line(e)
			if all {
				line += "  (" + e.Owner + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	historyCmd.Flags().Bool("all", false, "Show every owner's sessions")
}
