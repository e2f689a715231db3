// ABOUTME: theme subcommand showing or setting the stored theme
// ABOUTME: Works on the local store without contacting any API
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ujokes/ujokes-go/internal/store"
	"github.com/ujokes/ujokes-go/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|system]",
	Short:     "Show or set the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(theme.Light), string(theme.Dark), string(theme.System)},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(store.Options{Dir: globalConfig.Storage.Dir, Logger: logger})
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		sw := theme.NewSwitcher(st, logger)
		current, err := sw.Load(ctx)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			t, err := theme.Parse(args[0])
			if err != nil {
				return err
			}
			if current, err = sw.Set(ctx, t); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), current)
		return nil
	},
}
