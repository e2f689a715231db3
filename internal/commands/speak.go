// ABOUTME: speak subcommand narrating arbitrary text
// ABOUTME: Plays the narration and optionally saves it as WAV
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ujokes/ujokes-go/internal/app"
	"github.com/ujokes/ujokes-go/pkg/audio"
	"github.com/ujokes/ujokes-go/pkg/audio/encode"
)

var (
	speakOut    string
	speakNoPlay bool
)

var speakCmd = &cobra.Command{
	Use:   "speak [text]",
	Short: "Perform any text in the comedy voice",
	Long: `Send text to the speech model, then play it and/or save it as a WAV file.

Examples:
  ujokes speak "Why did the gopher cross the road? To get to the other goroutine."
  ujokes speak --no-play --out knock.wav "Knock knock."`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return fmt.Errorf("text is required")
		}
		if speakNoPlay && speakOut == "" {
			return fmt.Errorf("nothing to do: --no-play needs --out")
		}

		ctx := cmd.Context()
		a, err := app.Open(ctx, globalConfig, logger)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		buf, err := a.Narrate(ctx, text)
		if err != nil {
			return err
		}

		if speakOut != "" {
			if err := saveWAV(speakOut, buf); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%.1fs)\n", speakOut, buf.Duration().Seconds())
		}
		if speakNoPlay {
			return nil
		}
		return a.Play(ctx, buf)
	},
}

func init() {
	speakCmd.Flags().StringVarP(&speakOut, "out", "o", "", "save the narration as a WAV file")
	speakCmd.Flags().BoolVar(&speakNoPlay, "no-play", false, "do not play the narration")
}

func saveWAV(path string, buf audio.Buffer) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := encode.WriteWAV(f, buf); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
