// Package recurring handles the recurring transactions command
package recurring

import (
	"fjacquet/cashflow/cmd/common"
	"fjacquet/cashflow/cmd/root"
	"fjacquet/cashflow/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the recurring command
var Cmd = &cobra.Command{
	Use:   "recurring",
	Short: "List recurring incomes and expenses",
	Long: `List recurring incomes and expenses found in the transaction history.
Manual rules are applied first; the remaining transactions go through
automatic detection.`,
	Run: recurringFunc,
}

func recurringFunc(cmd *cobra.Command, args []string) {
	c := root.AppContainer
	today, err := common.ResolveToday(root.SharedFlags.Today)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}

	transactions, rules, err := common.LoadHistory(c, root.SharedFlags.Inputs)
	if err != nil {
		root.Log.Fatalf("Error loading history: %v", err)
	}

	set := c.GetEngine().Recurring(transactions, rules, today)
	data := report.RecurringReport{Incomes: set.Incomes, Expenses: set.Expenses}
	if err := common.Render(cmd.OutOrStdout(), c.GetReportGenerator(), data, root.SharedFlags.Format); err != nil {
		root.Log.Fatalf("Error rendering report: %v", err)
	}
}
