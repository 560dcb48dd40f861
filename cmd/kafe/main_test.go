package main

import (
	"testing"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	tests := []struct {
		name  string
		flags []string
	}{
		{"parse", []string{"format", "expression"}},
		{"check", nil},
		{"test", []string{"update"}},
		{"init", []string{"name", "yaml"}},
		{"lsp", nil},
		{"ui", []string{"addr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{tt.name})
			if err != nil || cmd == root {
				t.Fatalf("command %q not registered", tt.name)
			}
			for _, f := range tt.flags {
				if cmd.Flags().Lookup(f) == nil {
					t.Errorf("%s: missing --%s", tt.name, f)
				}
			}
		})
	}
}
