package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren/internal/driver"
)

// InputsCmd creates and returns the 'inputs' command, which lists the bundle
// files a generate run would read. Build tools use it for up-to-date checks.
func InputsCmd() *cobra.Command {
	var cf configFlags

	cmd := &cobra.Command{
		Use:   "inputs",
		Short: "List the resource files generation reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cf.load()
			if err != nil {
				return err
			}
			files, err := driver.InputFiles(cfg)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}

	cf.register(cmd)
	return cmd
}
