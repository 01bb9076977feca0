package score

import (
	"fmt"
	"time"
)

// Period is the width of a score bucket.
type Period string

const (
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
	PeriodLifetime  Period = "lifetime"
)

// LifetimeTimeline is the single bucket key of PeriodLifetime.
const LifetimeTimeline = "lifetime"

// Periods lists every period from finest to coarsest.
var Periods = []Period{
	PeriodDaily,
	PeriodWeekly,
	PeriodMonthly,
	PeriodQuarterly,
	PeriodYearly,
	PeriodLifetime,
}

// BestPeriods are the outer periods that track bests of their sub-periods.
var BestPeriods = []Period{
	PeriodQuarterly,
	PeriodYearly,
	PeriodLifetime,
}

func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.valid() {
		return "", fmt.Errorf("invalid period %q", s)
	}
	return p, nil
}

func (p Period) valid() bool {
	return p.rank() >= 0
}

func (p Period) rank() int {
	for i, q := range Periods {
		if q == p {
			return i
		}
	}
	return -1
}

// SubPeriods returns the periods strictly finer than p, finest first.
func (p Period) SubPeriods() []Period {
	r := p.rank()
	if r < 0 {
		panic(fmt.Sprintf("score: unknown period %q", string(p)))
	}
	return Periods[:r:r]
}

// Timeline returns the bucket key of t for period p. Keys of one period sort
// chronologically.
func Timeline(p Period, t time.Time) string {
	t = t.UTC()
	switch p {
	case PeriodDaily:
		return t.Format("2006-01-02")
	case PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case PeriodMonthly:
		return t.Format("2006-01")
	case PeriodQuarterly:
		return fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case PeriodYearly:
		return fmt.Sprintf("%04d", t.Year())
	case PeriodLifetime:
		return LifetimeTimeline
	default:
		panic(fmt.Sprintf("score: unknown period %q", string(p)))
	}
}
