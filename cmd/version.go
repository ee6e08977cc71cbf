// File: cmd/version.go
package cmd

import (
	"fmt"

	"aicontext/pkg/version"

	"github.com/spf13/cobra"
)

// newVersionCmd represents the version command.
// The --short flag prints only the version number.
func newVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of aicontext",
		Long:  `Display the current version information of the aicontext CLI tool.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Retrieve the value of the --short flag
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return fmt.Errorf("error reading flags: %w", err)
			}

			v := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), v.Version)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}
			return nil
		},
	}

	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return versionCmd
}
