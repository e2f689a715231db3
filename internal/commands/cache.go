// ABOUTME: cache subcommands for locally stored narrations and photos
// ABOUTME: Clears the audio:* store keys and the avatar directory
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ujokes/ujokes-go/internal/avatar"
	"github.com/ujokes/ujokes-go/internal/speech"
	"github.com/ujokes/ujokes-go/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage locally cached narrations and profile photos",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached narrations and profile photos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(store.Options{Dir: globalConfig.Storage.Dir, Logger: logger})
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err := speech.ClearCache(ctx, st); err != nil {
			return fmt.Errorf("clear narrations: %w", err)
		}

		photos, err := avatar.NewCache(globalConfig.Storage.AvatarDir, logger)
		if err != nil {
			return err
		}
		if err := photos.Cleanup(); err != nil {
			return fmt.Errorf("clear profile photos: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
