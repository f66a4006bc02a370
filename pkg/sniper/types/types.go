package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one trading day of OHLC data. Date is a calendar date at UTC midnight.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Category classifies a position within a portfolio.
type Category string

const (
	CategoryHolding   Category = "holding"
	CategoryWatchlist Category = "watchlist"
)

// ParseCategory accepts the spellings used in portfolio files.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "holding", "holdings", "held":
		return CategoryHolding, nil
	case "watchlist", "watch", "watching", "":
		return CategoryWatchlist, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// Position is a ticker's membership in a portfolio snapshot.
// An invalid or non-positive CostBasis means the ticker is watch-only for profit/loss.
type Position struct {
	Ticker    string
	CostBasis decimal.NullDecimal
	Category  Category
	Note      string
}

// HasCostBasis reports whether profit/loss can be computed for the position.
func (p Position) HasCostBasis() bool { return UsableCost(p.CostBasis) }

// UsableCost reports whether cost is present and positive.
func UsableCost(cost decimal.NullDecimal) bool {
	return cost.Valid && cost.Decimal.IsPositive()
}

// Cost returns a NullDecimal for a cost value; use NoCost for absence.
func Cost(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

// NoCost is the absent cost basis.
var NoCost = decimal.NullDecimal{}

// SharesPoint is one shares-outstanding observation.
type SharesPoint struct {
	Date   time.Time
	Shares float64
}

// FundamentalsSnapshot holds point-in-time company metrics. Every field may be absent.
type FundamentalsSnapshot struct {
	Ticker                    string
	SharesHistory             []SharesPoint // oldest to newest
	InstitutionalOwnershipPct *float64      // 0-100
	ShortInterestPct          *float64      // 0-100
	NextEarningsDate          *time.Time
}

// ProfitLoss is the unrealized result against a cost basis.
type ProfitLoss struct {
	Amount decimal.Decimal
	Pct    decimal.Decimal
}

// IndicatorPoint is one row of an IndicatorSeries.
type IndicatorPoint struct {
	EMA20     float64
	EMA50     float64
	EMA200    float64
	MACD      float64
	Signal    float64
	Histogram float64
}

// TacticalAssessment is the engine output for one ticker.
type TacticalAssessment struct {
	Ticker         string
	Period         Period
	AsOf           time.Time // date of the latest bar
	Bars           int
	LatestPrice    float64
	PriceChange    float64
	PriceChangePct float64
	ProfitLoss     *ProfitLoss
	Latest         IndicatorPoint

	FundamentalsApplicable    bool
	SharesTrendPct            *float64
	DaysToEarnings            *int
	InstitutionalOwnershipPct *float64
	ShortInterestPct          *float64

	Judgments []Judgment
}

// Entry pairs a position with its assessment or the reason none is available.
type Entry struct {
	Position   Position
	Name       string
	Assessment *TacticalAssessment
	Err        error
}

// Sheet is a named group of entries rendered together.
type Sheet struct {
	Name    string
	Columns []string
	Entries []Entry
}
