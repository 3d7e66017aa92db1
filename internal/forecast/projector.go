// Package forecast projects recurring incomes and expenses onto a day-by-day
// balance curve.
package forecast

import (
	"time"

	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/logging"
	"fjacquet/cashflow/internal/models"

	"github.com/shopspring/decimal"
)

// Options controls a projection. Zero values take defaults: a 90 day horizon
// starting today.
type Options struct {
	HorizonDays int
	Start       time.Time
}

// Projector builds liquidity forecasts
type Projector struct {
	strategyFor func(models.RecurringTransaction) OccurrenceStrategy
	logger      logging.Logger
}

// NewProjector creates a Projector
func NewProjector(logger logging.Logger) *Projector {
	return &Projector{strategyFor: StrategyFor, logger: logging.OrDiscard(logger)}
}

// Project returns one point per day from the start date to start+horizon
// inclusive. Each point carries the balance after every event of that day
// and the first of those events. Incomes are applied before expenses on a
// shared day.
func (p *Projector) Project(balance decimal.Decimal, incomes, expenses []models.RecurringTransaction, opts Options) []models.LiquidityForecastPoint {
	horizon := opts.HorizonDays
	if horizon <= 0 {
		horizon = models.DefaultHorizonDays
	}
	start := opts.Start
	if start.IsZero() {
		start = dateutils.Today()
	}
	start = dateutils.Day(start)

	events := make(map[string][]models.ForecastEvent)
	scheduled := 0
	schedule := func(entries []models.RecurringTransaction, eventType models.EventType) {
		for _, entry := range entries {
			if entry.IsExclude {
				continue
			}
			for _, date := range p.strategyFor(entry).Occurrences(entry, start, horizon) {
				key := dateutils.ToISODate(date)
				events[key] = append(events[key], models.ForecastEvent{
					Type:        eventType,
					Description: entry.Description,
					Amount:      entry.Amount.Abs(),
				})
				scheduled++
			}
		}
	}
	schedule(incomes, models.EventIncome)
	schedule(expenses, models.EventExpense)

	points := make([]models.LiquidityForecastPoint, 0, horizon+1)
	running := balance
	for day := 0; day <= horizon; day++ {
		date := dateutils.AddDays(start, day)
		point := models.LiquidityForecastPoint{Date: date}
		dayEvents := events[dateutils.ToISODate(date)]
		for _, event := range dayEvents {
			running = running.Add(event.Signed())
		}
		if len(dayEvents) > 0 {
			first := dayEvents[0]
			point.Event = &first
		}
		point.Balance = running
		points = append(points, point)
	}

	p.logger.Debug("Liquidity forecast projected",
		logging.Field{Key: logging.FieldHorizon, Value: horizon},
		logging.Field{Key: logging.FieldDate, Value: dateutils.ToISODate(start)},
		logging.Field{Key: logging.FieldCount, Value: scheduled})
	return points
}

// FindLowestLiquidityPoint returns the point with the smallest balance,
// the earliest one on ties. It reports false for an empty forecast.
func FindLowestLiquidityPoint(points []models.LiquidityForecastPoint) (models.LiquidityForecastPoint, bool) {
	if len(points) == 0 {
		return models.LiquidityForecastPoint{}, false
	}
	lowest := points[0]
	for _, point := range points[1:] {
		if point.Balance.LessThan(lowest.Balance) {
			lowest = point
		}
	}
	return lowest, true
}

// Summarize computes the summary of a forecast that started from balance
func Summarize(balance decimal.Decimal, points []models.LiquidityForecastPoint) models.ForecastSummary {
	summary := models.ForecastSummary{StartBalance: balance, EndBalance: balance}
	if lowest, ok := FindLowestLiquidityPoint(points); ok {
		summary.Lowest = &lowest
		summary.GoesNegative = lowest.Balance.IsNegative()
		summary.EndBalance = points[len(points)-1].Balance
	}
	summary.NetChange = summary.EndBalance.Sub(balance)
	return summary
}
