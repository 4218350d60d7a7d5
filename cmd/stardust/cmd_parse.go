package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/stardust"
	"github.com/kolkov/stardust/internal/ast"
	"github.com/kolkov/stardust/internal/lexer"
	"github.com/kolkov/stardust/internal/parser"
)

func newParseCmd() *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a source file and print the syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			src, err := readSource(cmd, filename)
			if err != nil {
				return err
			}

			prog, err := parser.ParseFile(filename, src)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			out := cmd.OutOrStdout()

			if tree {
				branch, err := parser.Validate(lexer.NewFile(filename, src, nil).All())
				if err != nil {
					return &stardust.ValidationError{Err: err}
				}
				return branch.Format(out)
			}

			if err := ast.NewPrinter(out).Print(prog); err != nil {
				return fmt.Errorf("print: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "print the LL(1) parse tree instead of the syntax tree")
	return cmd
}
