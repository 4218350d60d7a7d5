package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kolkov/stardust"
)

func newCheckCmd() *cobra.Command {
	var (
		verifyLexicon bool
		crossValidate bool
		maxErrors     int
		quiet         bool
	)

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Type-check a source file and print inferred symbol types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			src, err := readSource(cmd, filename)
			if err != nil {
				return err
			}

			unit, err := stardust.Compile(src, &stardust.Config{
				Filename:      filename,
				VerifyLexicon: verifyLexicon,
				CrossValidate: crossValidate,
				MaxErrors:     maxErrors,
			})
			stderr := cmd.ErrOrStderr()
			if err != nil {
				var ce *stardust.CompileError
				if !errors.As(err, &ce) {
					return err
				}
				for _, d := range ce.Errors {
					fmt.Fprintf(stderr, "%s:%s\n", filename, d)
				}
				if ce.Truncated > 0 {
					fmt.Fprintf(stderr, "%s: %d more errors not shown\n", filename, ce.Truncated)
				}
				return fmt.Errorf("%s: %d errors", filename, len(ce.Errors)+ce.Truncated)
			}

			for _, w := range unit.Warnings() {
				fmt.Fprintf(stderr, "%s:%s\n", filename, w)
			}
			if quiet {
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, sym := range unit.Symbols() {
				fmt.Fprintf(tw, "%d:%d\t%s\t%s\t%s\t%s\n", sym.Line, sym.Column, sym.Scope, sym.Kind, sym.Name, sym.Type)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&verifyLexicon, "verify-lexicon", false, "cross-check the lexicon automata before lexing")
	cmd.Flags().BoolVar(&crossValidate, "cross-validate", false, "also run the LL(1) table recognizer on the program")
	cmd.Flags().IntVar(&maxErrors, "max-errors", 0, "maximum errors to report (0 = default, negative = all)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "report problems only")
	return cmd
}
