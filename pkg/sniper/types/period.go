package types

import (
	"fmt"
	"strings"
	"time"
)

// Period is a lookback window for price history.
type Period string

const (
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period3Y  Period = "3y"
	Period5Y  Period = "5y"

	DefaultPeriod = Period1Y
)

// Periods lists the supported periods from shortest to longest.
var Periods = []Period{Period3Mo, Period6Mo, Period1Y, Period2Y, Period3Y, Period5Y}

// ParsePeriod validates a period string. Empty selects DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultPeriod, nil
	}
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q (want one of 3mo, 6mo, 1y, 2y, 3y, 5y)", s)
}

// Start returns the beginning of the window ending at now.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case Period3Mo:
		return now.AddDate(0, -3, 0)
	case Period6Mo:
		return now.AddDate(0, -6, 0)
	case Period2Y:
		return now.AddDate(-2, 0, 0)
	case Period3Y:
		return now.AddDate(-3, 0, 0)
	case Period5Y:
		return now.AddDate(-5, 0, 0)
	default:
		return now.AddDate(-1, 0, 0)
	}
}

// TradingDays is the approximate number of sessions in the period (252 per year).
func (p Period) TradingDays() int {
	switch p {
	case Period3Mo:
		return 63
	case Period6Mo:
		return 126
	case Period2Y:
		return 504
	case Period3Y:
		return 756
	case Period5Y:
		return 1260
	default:
		return 252
	}
}

func (p Period) String() string { return string(p) }
