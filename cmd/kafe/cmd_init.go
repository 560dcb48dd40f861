package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/kafe/project"
)

func newInitCmd() *cobra.Command {
	var name string
	var yamlFile bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a kafe project file and its directories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			configName := "kafe.toml"
			if yamlFile {
				configName = "kafe.yaml"
			}
			for _, existing := range project.ConfigNames {
				if _, err := os.Stat(filepath.Join(dir, existing)); err == nil {
					return fmt.Errorf("%s already exists", filepath.Join(dir, existing))
				}
			}

			proj := project.Default(dir)
			if name != "" {
				proj.Name = name
			}
			for _, sub := range []string{proj.SourcePath(), proj.TestsPath()} {
				if err := os.MkdirAll(sub, 0o755); err != nil {
					return fmt.Errorf("create %s: %w", sub, err)
				}
			}
			path := filepath.Join(dir, configName)
			if err := proj.Save(path); err != nil {
				return err
			}
			fmt.Printf("Created %s for project %s\n", path, proj.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name (default: directory name)")
	cmd.Flags().BoolVar(&yamlFile, "yaml", false, "write kafe.yaml instead of kafe.toml")

	return cmd
}
