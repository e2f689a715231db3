// ABOUTME: Root cobra command and shared startup for every subcommand
// ABOUTME: Loads .env and config, sets up logging, then runs the TUI or a headless marathon
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ujokes/ujokes-go/internal/app"
	"github.com/ujokes/ujokes-go/internal/config"
	"github.com/ujokes/ujokes-go/internal/logging"
)

var (
	// Global flags
	cfgFile  string
	logFile  string
	logLevel string
	noTUI    bool

	// Set by setup for every command
	globalConfig config.Config
	logger       = zerolog.Nop()
	logCloser    io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "ujokes",
	Short: "An AI comedy club in your terminal",
	Long: `U Jokes writes a batch of punchy jokes with Gemini and performs any of them
out loud in a funny voice.

Sign in with Google or skip straight to guest mode, then load jokes, reveal
punchlines and play the ones you like.

Configuration is read from ~/.config/ujokes/config.yaml (see --config) and the
Gemini API key from GEMINI_API_KEY, which may also live in a .env file.

Examples:
  # Interactive comedy club
  ujokes

  # Stream a whole set without the TUI
  ujokes --no-tui

  # Just print a batch
  ujokes jokes --format yaml
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: runRoot,
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.Flags().BoolVar(&noTUI, "no-tui", false, "disable TUI, narrate one batch and stream logs instead")

	rootCmd.AddCommand(jokesCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	// A missing .env is normal
	_ = godotenv.Load()

	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	globalConfig = cfg

	log, closer, err := logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Stream: noTUI,
	})
	if err != nil {
		return err
	}
	logger = log
	logCloser = closer

	logger.Debug().Str("config", path).Str("command", cmd.Name()).Msg("starting")
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := app.Open(ctx, globalConfig, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if noTUI {
		return a.RunHeadless(ctx, cmd.OutOrStdout())
	}
	if err := a.RunTUI(ctx); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
