package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/frahmantamala/income-expense-tracker/internal/entry"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:     "report <period>",
	Short:   "Print the totals and remaining budget of a period",
	Example: "  income-expense-tracker report 2024_November",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return err
		}
		defer deps.Close()

		summary, err := deps.EntryService.Summarize(context.Background(), args[0])
		if err != nil {
			return err
		}
		return writeSummary(cmd.OutOrStdout(), summary)
	},
}

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the periods that have saved entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return err
		}
		defer deps.Close()

		periods, err := deps.EntryService.ListPeriods(context.Background())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(periods) == 0 {
			fmt.Fprintln(out, "No saved periods.")
			return nil
		}
		for _, p := range periods {
			fmt.Fprintln(out, p)
		}
		return nil
	},
}

func writeSummary(w io.Writer, s *entry.Summary) error {
	fmt.Fprintf(w, "Period: %s\n", s.Period)
	if !s.HasData {
		fmt.Fprintln(w, s.Message)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Income\t%s\n", entry.FormatAmount(s.Figures.TotalIncome, s.Currency))
	fmt.Fprintf(tw, "Total Expense\t%s\n", entry.FormatAmount(s.Figures.TotalExpense, s.Currency))
	fmt.Fprintf(tw, "Remaining Budget\t%s\n", entry.FormatAmount(s.Figures.RemainingBudget, s.Currency))
	fmt.Fprintln(tw, "\t")
	for _, name := range sortedKeys(s.Figures.Income) {
		fmt.Fprintf(tw, "  income: %s\t%s\n", name, entry.FormatAmount(s.Figures.Income[name], s.Currency))
	}
	for _, name := range sortedKeys(s.Figures.Expenses) {
		fmt.Fprintf(tw, "  expense: %s\t%s\n", name, entry.FormatAmount(s.Figures.Expenses[name], s.Currency))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Comment: %s\n", s.Figures.Comment)
	return err
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
