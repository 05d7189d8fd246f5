package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren"
)

// VersionCmd creates and returns the 'version' command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wren v%s\n", wren.Version)
		},
	}
}
