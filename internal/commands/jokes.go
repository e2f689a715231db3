// ABOUTME: jokes subcommand printing one generated batch
// ABOUTME: Supports text, JSON and YAML output for piping
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ujokes/ujokes-go/internal/app"
	"github.com/ujokes/ujokes-go/internal/jokes"
)

var jokesFormat string

var jokesCmd = &cobra.Command{
	Use:   "jokes",
	Short: "Generate one batch of jokes and print it",
	Long: `Generate one batch of jokes with the configured text model and print it.

Example:
  ujokes jokes --format json | jq '.jokes[0].punchline'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := app.Open(ctx, globalConfig, logger)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		batch, err := a.Jokes().Generate(ctx)
		if err != nil {
			return err
		}
		return writeBatch(cmd.OutOrStdout(), batch, jokesFormat)
	},
}

func init() {
	jokesCmd.Flags().StringVar(&jokesFormat, "format", "text", "output format: text, json or yaml")
}

// writeBatch renders batch in one of the supported formats
func writeBatch(w io.Writer, batch jokes.Batch, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		if batch.Len() == 0 {
			_, err := fmt.Fprintln(w, "Stage is clear: the model returned no jokes.")
			return err
		}
		for i, j := range batch.Jokes {
			if _, err := fmt.Fprintf(w, "%2d. %s\n    — %s\n", i+1, j.Setup, j.Punchline); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(batch)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(batch); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
