package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/wren/internal/driver"
	"github.com/simonhull/firebird-suite/wren/internal/emit"
	"github.com/simonhull/firebird-suite/wren/internal/generator"
	"github.com/simonhull/firebird-suite/wren/internal/output"
)

// GenerateCmd creates and returns the 'generate' command
func GenerateCmd() *cobra.Command {
	var cf configFlags
	var dryRun, check, diff bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate key constants for every configured bundle package",
		Long: `Generate one Go file per bundle package declaring a constant for every key
found in any locale variant of the package.

Files whose content would not change are left untouched. Key collisions
(two keys sanitizing to the same identifier) fail the package without
writing anything; other packages are still generated.

Examples:
  wren generate
  wren generate --package app.text --resources res --output internal/text
  wren generate --dry-run --diff
  wren generate --check        # CI: fail if generated files are out of date`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun && check {
				return errors.New("--dry-run and --check are mutually exclusive")
			}

			cfg, err := cf.load()
			if err != nil {
				return err
			}
			log, err := newLogger(cmd)
			if err != nil {
				return err
			}

			d, err := driver.New(cfg, driver.Options{
				DryRun: dryRun,
				Check:  check,
				Diff:   diff,
				Log:    log,
			})
			if err != nil {
				return err
			}

			report, err := d.Run(cmd.Context())
			if err != nil {
				return err
			}

			if err := printReport(cmd, report); err != nil {
				return err
			}
			if failed := report.Failed(); failed > 0 {
				if check && allStale(report) {
					return fmt.Errorf("%d generated files are out of date; run wren generate", failed)
				}
				return fmt.Errorf("%d of %d packages failed", failed, len(report.Packages))
			}
			return nil
		},
	}

	cf.register(cmd)
	cmd.Flags().IntVarP(&cf.overrides.Workers, "workers", "j", 0, "Packages generated in parallel (default: config, then number of CPUs)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be written without writing")
	cmd.Flags().BoolVar(&check, "check", false, "Fail if any generated file is missing or out of date")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a diff for every changed file")

	return cmd
}

func allStale(report driver.Report) bool {
	for _, p := range report.Packages {
		if p.Err != nil && !errors.Is(p.Err, emit.ErrStale) {
			return false
		}
	}
	return true
}

func printReport(cmd *cobra.Command, report driver.Report) error {
	for _, p := range report.Packages {
		pkg := p.Target.Package
		path := displayPath(p.Target.Path)

		switch {
		case errors.Is(p.Err, emit.ErrStale):
			output.Warn(fmt.Sprintf("%s: %s is out of date", pkg, path))
		case p.Err != nil:
			output.Error(fmt.Sprintf("%s: %v", pkg, p.Err))
		case p.Emit.Status == emit.StatusWritten:
			output.Success(fmt.Sprintf("%s: wrote %s (%d keys)", pkg, path, p.Keys))
		case p.Emit.Status == emit.StatusDryRun:
			output.Info(fmt.Sprintf("%s: would write %s (%d keys)", pkg, path, p.Keys))
		default:
			output.Verbose(fmt.Sprintf("%s: %s is up to date", pkg, path))
		}

		if p.Emit.Diff != "" {
			if err := showDiff(cmd, path, p.Emit.Diff); err != nil {
				return err
			}
		}
	}

	if report.Failed() == 0 {
		output.Info(fmt.Sprintf("%d packages: %d written, %d unchanged (%s)",
			len(report.Packages),
			report.Count(emit.StatusWritten)+report.Count(emit.StatusDryRun),
			report.Count(emit.StatusUnchanged),
			report.Duration.Round(time.Millisecond)))
	}
	return nil
}

// showDiff pages long diffs on a terminal and prints everything else.
func showDiff(cmd *cobra.Command, title, diff string) error {
	if generator.IsTerminal() && generator.NeedsPager(diff, generator.TerminalHeight()) {
		return generator.Page("diff: "+title, diff)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), diff)
	return err
}
