package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/stardust"
)

func newTokensCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			if verify {
				if err := lexiconCheck(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			illegal := 0
			for _, tok := range stardust.Tokenize(src) {
				fmt.Fprintln(out, tok)
				if tok.Kind == "ILLEGAL" {
					illegal++
				}
			}
			if illegal > 0 {
				return fmt.Errorf("%d illegal tokens", illegal)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "cross-check the lexicon automata against their regular expressions first")
	return cmd
}

// lexiconCheck compiles an empty program with lexicon verification on.
func lexiconCheck() error {
	_, err := stardust.Compile("", &stardust.Config{VerifyLexicon: true})
	return err
}
