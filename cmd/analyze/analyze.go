// Package analyze handles the full analysis command
package analyze

import (
	"fjacquet/cashflow/cmd/common"
	"fjacquet/cashflow/cmd/root"
	"fjacquet/cashflow/pkg/cashflow"

	"github.com/spf13/cobra"
)

var (
	balance string
	buffer  string
	days    int
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run every view in one report",
	Long: `Run every view in one report: recurring incomes and expenses, subscriptions
and burn rate, the liquidity forecast summary and safe-to-spend.`,
	Run: analyzeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&balance, "balance", "b", "", "Current account balance")
	Cmd.Flags().StringVar(&buffer, "buffer", "", "Amount kept aside (default: safe_to_spend.buffer)")
	Cmd.Flags().IntVarP(&days, "days", "d", 0, "Forecast horizon in days (default: forecast.horizon_days)")
	_ = Cmd.MarkFlagRequired("balance")
}

func analyzeFunc(cmd *cobra.Command, args []string) {
	c := root.AppContainer
	today, err := common.ResolveToday(root.SharedFlags.Today)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}
	current, err := common.ParseRequiredAmount("balance", balance)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}
	kept, err := common.ParseOptionalAmount("buffer", buffer)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}

	transactions, rules, err := common.LoadHistory(c, root.SharedFlags.Inputs)
	if err != nil {
		root.Log.Fatalf("Error loading history: %v", err)
	}

	analysis := c.GetEngine().Analyze(cashflow.Request{
		Balance:      current,
		Transactions: transactions,
		Rules:        rules,
		Buffer:       kept,
		HorizonDays:  days,
		Today:        today,
	})
	if err := common.Render(cmd.OutOrStdout(), c.GetReportGenerator(), analysis, root.SharedFlags.Format); err != nil {
		root.Log.Fatalf("Error rendering report: %v", err)
	}
}
