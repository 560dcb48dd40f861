package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/kafe/kafe/codebase"
	"github.com/dhamidi/kafe/project"
	"github.com/dhamidi/kafe/ui"
)

func newUICmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start a web browser for the project",
		Long: `Serve the project's files with their syntax trees and parse errors,
plus a playground for parsing snippets. Files are reparsed as they change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load()
			if err != nil {
				return err
			}
			cb := codebase.New(proj)
			if err := cb.ScanDir(proj.RootDir); err != nil {
				return err
			}

			watcher := codebase.NewFileWatcher(cb)
			watcher.Start()
			defer watcher.Stop()

			server, err := ui.NewServer(cb)
			if err != nil {
				return err
			}

			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Printf("Starting server at http://%s\n", displayAddr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")

	return cmd
}
