// Package report renders engine results for people and for other programs.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format is an output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name, case-insensitively
func ParseFormat(format string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(format))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s. Supported formats are 'text', 'json', 'yaml'", format)
	}
}

// RecurringReport is the recurring view of an account
type RecurringReport struct {
	Incomes  []models.RecurringTransaction `json:"incomes" yaml:"incomes"`
	Expenses []models.RecurringTransaction `json:"expenses" yaml:"expenses"`
}

// SubscriptionReport lists subscriptions and their monthly total
type SubscriptionReport struct {
	Subscriptions []models.SubscriptionItem `json:"subscriptions" yaml:"subscriptions"`
	BurnRate      decimal.Decimal           `json:"burn_rate" yaml:"burn_rate"`
}

// ForecastReport is a projection with its summary
type ForecastReport struct {
	Summary models.ForecastSummary          `json:"summary" yaml:"summary"`
	Points  []models.LiquidityForecastPoint `json:"points" yaml:"points"`
}

// RulesReport lists the manual rules
type RulesReport struct {
	Rules []models.ManualRecurringRule `json:"rules" yaml:"rules"`
}

// Generator renders reports in the supported formats
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logging.OrDiscard(logger)}
}

// Generate renders data, one of the report types above, a models.Analysis or
// a models.SafeToSpend. JSON and YAML accept any value.
func (g *Generator) Generate(data interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.generateJSON(data)
	case FormatYAML:
		return g.generateYAML(data)
	case FormatText, "":
		return g.generateText(data)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(data interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) generateText(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	switch v := data.(type) {
	case RecurringReport:
		writeRecurring(&buf, "Recurring incomes", v.Incomes)
		buf.WriteString("\n")
		writeRecurring(&buf, "Recurring expenses", v.Expenses)
	case *RecurringReport:
		return g.generateText(*v)
	case SubscriptionReport:
		writeSubscriptions(&buf, v.Subscriptions, v.BurnRate)
	case *SubscriptionReport:
		return g.generateText(*v)
	case ForecastReport:
		writeForecastSummary(&buf, v.Summary)
		buf.WriteString("\n")
		writeForecastEvents(&buf, v.Points)
	case *ForecastReport:
		return g.generateText(*v)
	case models.SafeToSpend:
		writeSafeToSpend(&buf, v)
	case *models.SafeToSpend:
		return g.generateText(*v)
	case RulesReport:
		writeRules(&buf, v.Rules)
	case models.Analysis:
		fmt.Fprintf(&buf, "Analysis as of %s, balance %s\n\n", dateutils.ToISODate(v.Today), money(v.Balance))
		writeRecurring(&buf, "Recurring incomes", v.Incomes)
		buf.WriteString("\n")
		writeRecurring(&buf, "Recurring expenses", v.Expenses)
		buf.WriteString("\n")
		writeSubscriptions(&buf, v.Subscriptions, v.BurnRate)
		buf.WriteString("\n")
		writeForecastSummary(&buf, v.ForecastSummary)
		buf.WriteString("\n")
		writeSafeToSpend(&buf, v.SafeToSpend)
	case *models.Analysis:
		return g.generateText(*v)
	default:
		return nil, fmt.Errorf("no text rendering for %T", data)
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func newTable(buf *bytes.Buffer) *tabwriter.Writer {
	return tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
}

func writeRecurring(buf *bytes.Buffer, title string, entries []models.RecurringTransaction) {
	fmt.Fprintf(buf, "%s (%d)\n", title, len(entries))
	if len(entries) == 0 {
		buf.WriteString("  none\n")
		return
	}
	w := newTable(buf)
	fmt.Fprintln(w, "  DESCRIPTION\tAMOUNT\tFREQUENCY\tEVERY\tLAST\tSEEN\tSOURCE")
	for _, e := range entries {
		source := "detected"
		switch {
		case e.IsProjected():
			source = "rule (projected)"
		case e.IsRuleBacked():
			source = "rule"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%dd\t%s\t%d\t%s\n",
			e.Description, money(e.Amount), e.Frequency, e.IntervalDays,
			dateutils.ToISODate(e.LastCharged), e.Occurrences, source)
	}
	_ = w.Flush()
}

func writeRules(buf *bytes.Buffer, rules []models.ManualRecurringRule) {
	fmt.Fprintf(buf, "Manual rules (%d)\n", len(rules))
	if len(rules) == 0 {
		return
	}
	w := newTable(buf)
	fmt.Fprintln(w, "  ID\tNAME\tDIRECTION\tPATTERN\tAMOUNT\tDAYS\tSTATE")
	for _, r := range rules {
		amount := "-"
		if r.ExpectedAmount != nil {
			amount = money(*r.ExpectedAmount)
		}
		window := "-"
		if r.DayWindow != nil {
			window = fmt.Sprintf("%d-%d", r.DayWindow.Start, r.DayWindow.End)
		}
		state := "enabled"
		if !r.Enabled {
			state = "disabled"
		}
		if r.IsExclude {
			state += ", exclude"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Label(), r.Direction, r.Pattern, amount, window, state)
	}
	_ = w.Flush()
}

func writeSubscriptions(buf *bytes.Buffer, items []models.SubscriptionItem, burnRate decimal.Decimal) {
	fmt.Fprintf(buf, "Subscriptions (%d)\n", len(items))
	if len(items) > 0 {
		w := newTable(buf)
		fmt.Fprintln(w, "  DESCRIPTION\tAMOUNT\tFREQUENCY\tPER MONTH")
		for _, item := range items {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", item.Description, money(item.Amount), item.Frequency, money(item.MonthlyEquivalent))
		}
		_ = w.Flush()
	}
	fmt.Fprintf(buf, "Monthly burn rate: %s\n", money(burnRate))
}

func writeForecastSummary(buf *bytes.Buffer, s models.ForecastSummary) {
	buf.WriteString("Liquidity forecast\n")
	fmt.Fprintf(buf, "  Start balance: %s\n", money(s.StartBalance))
	fmt.Fprintf(buf, "  End balance:   %s (%s)\n", money(s.EndBalance), signed(s.NetChange))
	if s.Lowest != nil {
		fmt.Fprintf(buf, "  Lowest point:  %s on %s\n", money(s.Lowest.Balance), dateutils.ToISODate(s.Lowest.Date))
	}
	if s.GoesNegative {
		buf.WriteString("  WARNING: balance goes negative within the horizon\n")
	}
}

func writeForecastEvents(buf *bytes.Buffer, points []models.LiquidityForecastPoint) {
	w := newTable(buf)
	fmt.Fprintln(w, "  DATE\tEVENT\tAMOUNT\tBALANCE")
	for _, p := range points {
		if p.Event == nil {
			continue
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", dateutils.ToISODate(p.Date), p.Event.Description, signed(p.Event.Signed()), money(p.Balance))
	}
	_ = w.Flush()
}

func writeSafeToSpend(buf *bytes.Buffer, s models.SafeToSpend) {
	buf.WriteString("Safe to spend\n")
	fmt.Fprintf(buf, "  Balance:            %s\n", money(s.TotalBalance))
	fmt.Fprintf(buf, "  Reserved for bills: %s\n", money(s.ReservedForBills))
	fmt.Fprintf(buf, "  Buffer:             %s\n", money(s.Buffer))
	fmt.Fprintf(buf, "  Next payday:        %s (in %d days)\n", dateutils.ToISODate(s.NextPayday), s.DaysUntilPayday)
	fmt.Fprintf(buf, "  Safe to spend:      %s\n", money(s.SafeToSpend))
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return money(d)
	}
	return "+" + money(d)
}
