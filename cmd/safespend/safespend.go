// Package safespend handles the safe-to-spend command
package safespend

import (
	"fjacquet/cashflow/cmd/common"
	"fjacquet/cashflow/cmd/root"

	"github.com/spf13/cobra"
)

var (
	balance string
	buffer  string
)

// Cmd represents the safe-to-spend command
var Cmd = &cobra.Command{
	Use:   "safe-to-spend",
	Short: "Estimate what can be spent before the next payday",
	Long: `Estimate what can be spent before the next payday: the balance minus every
recurring bill due until then and a safety buffer.`,
	Run: safeSpendFunc,
}

func init() {
	Cmd.Flags().StringVarP(&balance, "balance", "b", "", "Current account balance")
	Cmd.Flags().StringVar(&buffer, "buffer", "", "Amount kept aside (default: safe_to_spend.buffer)")
	_ = Cmd.MarkFlagRequired("balance")
}

func safeSpendFunc(cmd *cobra.Command, args []string) {
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

	result := c.GetEngine().SafeToSpend(current, transactions, rules, kept, today)
	if err := common.Render(cmd.OutOrStdout(), c.GetReportGenerator(), result, root.SharedFlags.Format); err != nil {
		root.Log.Fatalf("Error rendering report: %v", err)
	}
}
