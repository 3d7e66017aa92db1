// Package rules handles the manual rule management commands
package rules

import (
	"fmt"
	"strconv"

	"fjacquet/cashflow/cmd/common"
	"fjacquet/cashflow/cmd/root"
	"fjacquet/cashflow/internal/container"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"
	"fjacquet/cashflow/internal/report"
	"fjacquet/cashflow/internal/store"

	"github.com/spf13/cobra"
)

// ruleFlags are the add command flags, kept as strings so that unset
// optional fields stay distinguishable from zero.
type ruleFlags struct {
	ID         string
	Name       string
	Direction  string
	Pattern    string
	Category   string
	DayStart   int
	DayEnd     int
	Amount     string
	Tolerance  string
	Interval   int
	UseAverage bool
	Exclude    bool
	Disabled   bool
}

var addFlags ruleFlags

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage manual recurring rules",
	Long: `Manage the manual recurring rules stored in the rules YAML file. Rules
declare recurring incomes and expenses that detection misses, and exclusion
rules hide transactions from detection.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List manual rules",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rules, err := root.AppContainer.LoadRules()
		if err != nil {
			root.Log.Fatalf("%v", err)
		}
		data := report.RulesReport{Rules: rules}
		if err := common.Render(cmd.OutOrStdout(), root.AppContainer.GetReportGenerator(), data, root.SharedFlags.Format); err != nil {
			root.Log.Fatalf("Error rendering rules: %v", err)
		}
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or replace a manual rule",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rule, err := addRule(root.AppContainer, addFlags)
		if err != nil {
			root.Log.Fatalf("Error adding rule: %v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved rule %s (%s)\n", rule.ID, rule.Label())
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a manual rule",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := removeRule(root.AppContainer, args[0]); err != nil {
			root.Log.Fatalf("Error removing rule: %v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed rule %s\n", args[0])
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a manual rule",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setEnabled(root.AppContainer, args[0], true); err != nil {
			root.Log.Fatalf("Error enabling rule: %v", err)
		}
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a manual rule",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setEnabled(root.AppContainer, args[0], false); err != nil {
			root.Log.Fatalf("Error disabling rule: %v", err)
		}
	},
}

func init() {
	f := addCmd.Flags()
	f.StringVar(&addFlags.ID, "id", "", "Rule id; an existing id is replaced (default: generated)")
	f.StringVarP(&addFlags.Name, "name", "n", "", "Display name")
	f.StringVarP(&addFlags.Direction, "direction", "d", "", "CREDIT or DEBIT")
	f.StringVarP(&addFlags.Pattern, "pattern", "p", "", "Case-insensitive description fragment")
	f.StringVarP(&addFlags.Category, "category", "c", "", "Required transaction category")
	f.IntVar(&addFlags.DayStart, "day-start", 0, "First day of month of the window (1-31)")
	f.IntVar(&addFlags.DayEnd, "day-end", 0, "Last day of month of the window (1-31)")
	f.StringVarP(&addFlags.Amount, "amount", "a", "", "Expected amount")
	f.StringVar(&addFlags.Tolerance, "tolerance", "", "Relative amount tolerance, e.g. 0.1")
	f.IntVar(&addFlags.Interval, "interval", 0, "Declared interval in days")
	f.BoolVar(&addFlags.UseAverage, "use-average", false, "Use the average of matched amounts")
	f.BoolVar(&addFlags.Exclude, "exclude", false, "Hide matched transactions from detection")
	f.BoolVar(&addFlags.Disabled, "disabled", false, "Store the rule disabled")
	_ = addCmd.MarkFlagRequired("direction")

	Cmd.AddCommand(listCmd, addCmd, removeCmd, enableCmd, disableCmd)
}

// buildRule turns add flags into a rule
func buildRule(f ruleFlags) (models.ManualRecurringRule, error) {
	rule := models.ManualRecurringRule{
		ID:           f.ID,
		Name:         f.Name,
		Direction:    models.ParseDirection(f.Direction),
		Pattern:      f.Pattern,
		Category:     f.Category,
		IntervalDays: f.Interval,
		UseAverage:   f.UseAverage,
		IsExclude:    f.Exclude,
		Enabled:      !f.Disabled,
	}

	switch {
	case f.DayStart != 0 && f.DayEnd != 0:
		rule.DayWindow = &models.DayWindow{Start: f.DayStart, End: f.DayEnd}
	case f.DayStart != 0 || f.DayEnd != 0:
		return rule, fmt.Errorf("--day-start and --day-end must be given together")
	}

	amount, err := common.ParseOptionalAmount("amount", f.Amount)
	if err != nil {
		return rule, err
	}
	rule.ExpectedAmount = amount

	if f.Tolerance != "" {
		tolerance, err := strconv.ParseFloat(f.Tolerance, 64)
		if err != nil {
			return rule, fmt.Errorf("invalid --tolerance value %q: %w", f.Tolerance, err)
		}
		rule.Tolerance = &tolerance
	}

	if rule.Pattern == "" && rule.Category == "" && rule.ExpectedAmount == nil && rule.DayWindow == nil {
		return rule, fmt.Errorf("a rule needs at least one of --pattern, --category, --amount or a day window")
	}
	return rule, store.ValidateRule(withPlaceholderID(rule))
}

// withPlaceholderID lets a rule without id pass validation before one is generated
func withPlaceholderID(rule models.ManualRecurringRule) models.ManualRecurringRule {
	if rule.ID == "" {
		rule.ID = "new"
	}
	return rule
}

func addRule(c *container.Container, f ruleFlags) (models.ManualRecurringRule, error) {
	rule, err := buildRule(f)
	if err != nil {
		return rule, err
	}
	rules, err := c.LoadRules()
	if err != nil {
		return rule, err
	}
	rules, rule = store.UpsertRule(rules, rule)
	if err := c.SaveRules(rules); err != nil {
		return rule, err
	}
	c.GetLogger().Info("Rule saved", logging.Field{Key: logging.FieldRuleID, Value: rule.ID})
	return rule, nil
}

func removeRule(c *container.Container, id string) error {
	rules, err := c.LoadRules()
	if err != nil {
		return err
	}
	rules, found := store.RemoveRule(rules, id)
	if !found {
		return fmt.Errorf("rule %s not found", id)
	}
	return c.SaveRules(rules)
}

func setEnabled(c *container.Container, id string, enabled bool) error {
	rules, err := c.LoadRules()
	if err != nil {
		return err
	}
	if !store.SetRuleEnabled(rules, id, enabled) {
		return fmt.Errorf("rule %s not found", id)
	}
	return c.SaveRules(rules)
}
