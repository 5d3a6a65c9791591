package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <topic>",
	Short: "Explain a topic in plain text, optionally narrated to an audio file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		audio, _ := cmd.Flags().GetBool("audio")
		outPath, _ := cmd.Flags().GetString("out")
		topic := strings.Join(args, " ")
		out := cmd.OutOrStdout()

		rt, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		if !audio {
			text, err := rt.service.Explain(ctx, topic)
			if err != nil {
				return fmt.Errorf("explain: %w", err)
			}
			fmt.Fprintln(out, text)
			return nil
		}

		text, clip, err := rt.service.Narrate(ctx, topic)
		if text != "" {
			fmt.Fprintln(out, text)
		}
		if err != nil {
			return fmt.Errorf("narrate: %w", err)
		}

		if outPath == "" {
			outPath = "explanation" + clip.Ext()
		}
		if err := os.WriteFile(outPath, clip.Data, 0o644); err != nil {
			return fmt.Errorf("write audio: %w", err)
		}
		fmt.Fprintf(out, "\nAudio saved to %s (%s)\n", outPath, clip.MIMEType)
		return nil
	},
}

func init() {
	explainCmd.Flags().Bool("audio", false, "Also synthesize the explanation to an audio file")
	explainCmd.Flags().StringP("out", "o", "", "Audio output path (default explanation.<ext>)")
}
