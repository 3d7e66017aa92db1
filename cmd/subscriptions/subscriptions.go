// Package subscriptions handles the subscriptions command
package subscriptions

import (
	"fjacquet/cashflow/cmd/common"
	"fjacquet/cashflow/cmd/root"
	"fjacquet/cashflow/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the subscriptions command
var Cmd = &cobra.Command{
	Use:   "subscriptions",
	Short: "List subscriptions and the monthly burn rate",
	Long: `List recurring expenses that are not housing costs, with their monthly
equivalent, and the total monthly burn rate.`,
	Run: subscriptionsFunc,
}

func subscriptionsFunc(cmd *cobra.Command, args []string) {
	c := root.AppContainer
	today, err := common.ResolveToday(root.SharedFlags.Today)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}

	transactions, rules, err := common.LoadHistory(c, root.SharedFlags.Inputs)
	if err != nil {
		root.Log.Fatalf("Error loading history: %v", err)
	}

	items, burnRate := c.GetEngine().Subscriptions(transactions, rules, today)
	data := report.SubscriptionReport{Subscriptions: items, BurnRate: burnRate}
	if err := common.Render(cmd.OutOrStdout(), c.GetReportGenerator(), data, root.SharedFlags.Format); err != nil {
		root.Log.Fatalf("Error rendering report: %v", err)
	}
}
