// Package forecast handles the liquidity forecast command
package forecast

import (
	"fjacquet/cashflow/cmd/common"
	"fjacquet/cashflow/cmd/root"
	csvio "fjacquet/cashflow/internal/common"
	projection "fjacquet/cashflow/internal/forecast"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/report"

	"github.com/spf13/cobra"
)

var (
	balance string
	days    int
	output  string
)

// Cmd represents the forecast command
var Cmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project the account balance day by day",
	Long: `Project the account balance from the current balance and the recurring
incomes and expenses. Prints the lowest point of the horizon and every
projected event; --output also writes one CSV row per day.`,
	Run: forecastFunc,
}

func init() {
	Cmd.Flags().StringVarP(&balance, "balance", "b", "", "Current account balance")
	Cmd.Flags().IntVarP(&days, "days", "d", 0, "Horizon in days (default: forecast.horizon_days)")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Write the daily forecast to this CSV file")
	_ = Cmd.MarkFlagRequired("balance")
}

func forecastFunc(cmd *cobra.Command, args []string) {
	c := root.AppContainer
	today, err := common.ResolveToday(root.SharedFlags.Today)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}
	start, err := common.ParseRequiredAmount("balance", balance)
	if err != nil {
		root.Log.Fatalf("%v", err)
	}

	transactions, rules, err := common.LoadHistory(c, root.SharedFlags.Inputs)
	if err != nil {
		root.Log.Fatalf("Error loading history: %v", err)
	}

	points := c.GetEngine().Forecast(start, transactions, rules, today, days)
	summary := projection.Summarize(start, points)
	if summary.GoesNegative {
		root.Log.Warn("Balance goes negative within the forecast horizon",
			logging.Field{Key: logging.FieldBalance, Value: summary.Lowest.Balance.StringFixed(2)})
	}

	if output != "" {
		if err := csvio.WriteForecastCSV(points, output, root.Log); err != nil {
			root.Log.Fatalf("Error writing forecast CSV: %v", err)
		}
	}

	data := report.ForecastReport{Summary: summary, Points: points}
	if err := common.Render(cmd.OutOrStdout(), c.GetReportGenerator(), data, root.SharedFlags.Format); err != nil {
		root.Log.Fatalf("Error rendering report: %v", err)
	}
}
