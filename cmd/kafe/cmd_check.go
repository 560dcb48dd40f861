package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/kafe/format"
	"github.com/dhamidi/kafe/kafe/codebase"
	"github.com/dhamidi/kafe/project"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Report parse errors",
		Long: `Parse the given files, or every file in the project's source directory
when none are given, and report the first parse error of each file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load()
			if err != nil {
				return err
			}
			cb := codebase.New(proj)

			if len(args) == 0 {
				if err := cb.ScanDir(proj.SourcePath()); err != nil {
					return err
				}
			}
			for _, path := range args {
				if _, err := cb.ScanFile(path); err != nil {
					return err
				}
			}

			enc := format.NewDiagnosticEncoder(os.Stderr)
			failed := cb.Errors()
			for _, f := range failed {
				if err := enc.Encode(f.ParseErr, f.Content); err != nil {
					return err
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d files failed to parse", len(failed), len(cb.Files()))
			}
			fmt.Fprintf(os.Stdout, "%d files ok\n", len(cb.Files()))
			return nil
		},
	}
	return cmd
}
