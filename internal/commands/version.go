// ABOUTME: version subcommand
// ABOUTME: Prints product, version and commit
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ujokes/ujokes-go/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}
