package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/kafe/format"
	"github.com/dhamidi/kafe/kafe/golden"
	"github.com/dhamidi/kafe/project"
)

func newTestCmd() *cobra.Command {
	var update bool

	cmd := &cobra.Command{
		Use:   "test [dir]",
		Short: "Run golden tests",
		Long: `Run golden tests.

Every .kafe file under dir (default: the project's tests directory) is
parsed and its syntax tree, or its parse error, is compared with the
.kafe.expected file next to it.

Examples:
  kafe test                  # Run the project's golden tests
  kafe test examples/        # Run the tests under examples/
  kafe test --update         # Rewrite every expected file`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load()
			if err != nil {
				return err
			}
			dir := proj.TestsPath()
			if len(args) == 1 {
				dir = args[0]
			}

			summary, err := golden.NewRunner(proj, golden.WithUpdate(update)).Run(dir)
			if err != nil {
				return fmt.Errorf("run golden tests: %w", err)
			}
			if err := format.NewDiagnosticEncoder(os.Stdout).EncodeSummary(summary); err != nil {
				return err
			}
			if !summary.OK() {
				return fmt.Errorf("%d golden tests failed", summary.Failed())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&update, "update", "u", false, "rewrite expected files from the current output")

	return cmd
}
