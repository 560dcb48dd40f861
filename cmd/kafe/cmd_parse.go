package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/kafe/format"
	"github.com/dhamidi/kafe/kafe/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var expression bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .kafe file and print its syntax tree",
		Long: `Parse a .kafe file and print its syntax tree.

Use - to read from standard input. With --expression the input is parsed
as a single expression instead of a program.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := readSource(filename)
			if err != nil {
				return err
			}

			if expression {
				node, err := parser.ParseExpression(string(data), parser.WithFile(filename))
				if err != nil {
					format.NewDiagnosticEncoder(os.Stderr).Encode(err, data)
					return fmt.Errorf("parse %s failed", filename)
				}
				return format.NewTreeEncoder(os.Stdout).EncodeNode(node)
			}

			encoder, err := format.New(outputFormat, os.Stdout)
			if err != nil {
				return err
			}
			prog, err := parser.Parse(string(data), parser.WithFile(filename))
			if err != nil {
				format.NewDiagnosticEncoder(os.Stderr).Encode(err, data)
				return fmt.Errorf("parse %s failed", filename)
			}
			if err := encoder.Encode(prog); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.Flags().BoolVarP(&expression, "expression", "e", false, "parse the input as a single expression")

	return cmd
}

func readSource(filename string) ([]byte, error) {
	if filename == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return data, nil
}
