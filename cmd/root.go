package cmd

import (
	"fmt"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "studybuddy",
	Short: "Focus timer, flash cards and quizzes in the terminal",
	Long:  "studybuddy runs focus cycles and quizzes you on any topic with AI-generated flash cards and multiple-choice questions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYBUDDY_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides STUDYBUDDY_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (overrides STUDYBUDDY_LOG_FORMAT)")
	rootCmd.PersistentFlags().String("owner", defaultOwner(), "Owner the sessions belong to")

	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(flashcardsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func defaultOwner() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

// openStore opens the database selected by --db, $STUDYBUDDY_DB or the
// XDG default, in that order.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	flag, _ := cmd.Flags().GetString("db")
	path, err := store.ResolvePath(flag)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
