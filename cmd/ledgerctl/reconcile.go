package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fundledger/internal/services"
)

func reconcileCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare stored account balances with the ledger",
		Long: `Recompute every account balance from the live transactions and
drawings and list the accounts whose stored balance differs. With --fix
the stored balances are overwritten in one database transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, m, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			drifts, err := services.NewLedgerService(m.DB()).Reconcile(fix)
			if err != nil {
				return err
			}
			return printDrifts(cmd.OutOrStdout(), drifts, fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "overwrite drifted balances")
	return cmd
}

func printDrifts(out io.Writer, drifts []services.BalanceDrift, fixed bool) error {
	if len(drifts) == 0 {
		_, err := fmt.Fprintln(out, "all balances match")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tSTORED\tEXPECTED\tDIFFERENCE")
	for _, d := range drifts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.AccountName, d.Stored.StringFixed(2), d.Expected.StringFixed(2), d.Difference.StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if fixed {
		_, err := fmt.Fprintf(out, "corrected %d account(s)\n", len(drifts))
		return err
	}
	_, err := fmt.Fprintln(out, "run with --fix to correct")
	return err
}
