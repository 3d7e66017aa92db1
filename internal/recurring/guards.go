package recurring

import (
	"math"
	"time"

	"fjacquet/cashflow/internal/dateutils"
	"fjacquet/cashflow/internal/models"
)

// candidate is a group of same-key transactions on its way through the
// detection pipeline. Transactions are in chronological order.
type candidate struct {
	key           string
	transactions  []models.Transaction
	gaps          []int
	meanGap       float64
	daysSinceLast int
}

func newCandidate(key string, transactions []models.Transaction, today time.Time) *candidate {
	c := &candidate{key: key, transactions: transactions}
	for i := 1; i < len(transactions); i++ {
		c.gaps = append(c.gaps, dateutils.DaysBetween(transactions[i-1].Date, transactions[i].Date))
	}
	if len(c.gaps) > 0 {
		sum := 0
		for _, g := range c.gaps {
			sum += g
		}
		c.meanGap = float64(sum) / float64(len(c.gaps))
	}
	if n := len(transactions); n > 0 {
		c.daysSinceLast = dateutils.DaysBetween(transactions[n-1].Date, today)
	}
	return c
}

func (c *candidate) last() models.Transaction {
	return c.transactions[len(c.transactions)-1]
}

func (c *candidate) intervalDays() int {
	return int(math.Round(c.meanGap))
}

// guard is one acceptance rule of the detection pipeline.
// A candidate must pass every guard, in order, to become recurring.
type guard struct {
	reason string
	accept func(c *candidate) bool
}

// minOccurrences rejects groups with fewer than n transactions
func minOccurrences(n int) guard {
	return guard{
		reason: "too few occurrences",
		accept: func(c *candidate) bool { return len(c.transactions) >= n },
	}
}

// positiveInterval rejects groups without a usable mean gap. It also keeps
// single-transaction groups away from the deviation maths below.
func positiveInterval() guard {
	return guard{
		reason: "no positive interval",
		accept: func(c *candidate) bool { return len(c.gaps) > 0 && c.meanGap > 0 },
	}
}

// consistentGaps requires every gap to deviate from the mean by less than
// tolerance, relative to the mean.
func consistentGaps(tolerance float64) guard {
	return guard{
		reason: "inconsistent interval",
		accept: func(c *candidate) bool {
			for _, gap := range c.gaps {
				if math.Abs(float64(gap)-c.meanGap)/c.meanGap >= tolerance {
					return false
				}
			}
			return true
		},
	}
}

// active rejects groups whose last occurrence is more than factor mean gaps
// before today; such a recurrence is presumed cancelled.
func active(factor float64) guard {
	return guard{
		reason: "stale",
		accept: func(c *candidate) bool {
			return float64(c.daysSinceLast) <= factor*c.meanGap
		},
	}
}
