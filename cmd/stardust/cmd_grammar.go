package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/stardust"
	"github.com/kolkov/stardust/internal/grammar"
)

func newGrammarCmd() *cobra.Command {
	var sets, table bool

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the FIRST/FOLLOW sets and LL(1) table of the language grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stardust.VerifyGrammar(); err != nil {
				return err
			}
			if !sets && !table {
				sets, table = true, true
			}

			a := grammar.Compiled()
			out := cmd.OutOrStdout()
			if sets {
				if err := a.FormatSets(out); err != nil {
					return err
				}
			}
			if sets && table {
				fmt.Fprintln(out)
			}
			if table {
				return a.Table.Format(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sets, "sets", false, "print only FIRST and FOLLOW sets")
	cmd.Flags().BoolVar(&table, "table", false, "print only the parsing table")
	return cmd
}
