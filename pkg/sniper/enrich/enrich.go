package enrich

import (
	"strings"
	"time"

	"github.com/komsit37/sniper/pkg/sniper/normalize"
	"github.com/komsit37/sniper/pkg/sniper/types"
)

// InstrumentKind classifies a ticker by symbol convention.
type InstrumentKind string

const (
	KindEquity InstrumentKind = "equity"
	KindIndex  InstrumentKind = "index"
	KindCrypto InstrumentKind = "crypto"
	KindFX     InstrumentKind = "fx"
	KindFuture InstrumentKind = "future"
)

var cryptoQuotes = []string{"-USD", "-USDT", "-USDC", "-BTC", "-ETH", "-EUR"}

// Classify maps Yahoo-style symbols: ^GSPC is an index, BTC-USD a crypto pair,
// EURUSD=X a currency pair and CL=F a future. Everything else is an equity.
func Classify(ticker string) InstrumentKind {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	switch {
	case strings.HasPrefix(t, "^"):
		return KindIndex
	case strings.HasSuffix(t, "=X"):
		return KindFX
	case strings.HasSuffix(t, "=F"):
		return KindFuture
	}
	for _, q := range cryptoQuotes {
		if strings.HasSuffix(t, q) && len(t) > len(q) {
			return KindCrypto
		}
	}
	return KindEquity
}

// Applicable reports whether fundamentals exist for the ticker.
func Applicable(ticker string) bool { return Classify(ticker) == KindEquity }

// yoyLag approximates one year at quarterly cadence.
const yoyLag = 4

// SharesTrendPct compares the latest share count with the one a year earlier.
// With fewer than five points the oldest available point is used instead.
// Negative means buyback, positive dilution. ok is false when indeterminate.
func SharesTrendPct(history []types.SharesPoint) (pct float64, ok bool) {
	if len(history) < 2 {
		return 0, false
	}
	latest := history[len(history)-1].Shares
	ref := history[0].Shares
	if len(history) > yoyLag {
		ref = history[len(history)-1-yoyLag].Shares
	}
	if ref <= 0 {
		return 0, false
	}
	return (latest - ref) / ref * 100, true
}

// DaysToEarnings counts calendar days from today to next. A past or missing date is unknown.
func DaysToEarnings(next *time.Time, today time.Time) (int, bool) {
	if next == nil || next.IsZero() {
		return 0, false
	}
	d := int(normalize.Date(*next).Sub(normalize.Date(today)).Hours() / 24)
	if d < 0 {
		return 0, false
	}
	return d, true
}

// Enrichment is the derived view of a fundamentals snapshot.
type Enrichment struct {
	SharesTrendPct            *float64
	DaysToEarnings            *int
	InstitutionalOwnershipPct *float64
	ShortInterestPct          *float64
}

// Enrich derives shares trend and earnings countdown from a snapshot.
func Enrich(s types.FundamentalsSnapshot, today time.Time) Enrichment {
	e := Enrichment{
		InstitutionalOwnershipPct: s.InstitutionalOwnershipPct,
		ShortInterestPct:          s.ShortInterestPct,
	}
	if pct, ok := SharesTrendPct(s.SharesHistory); ok {
		e.SharesTrendPct = &pct
	}
	if d, ok := DaysToEarnings(s.NextEarningsDate, today); ok {
		e.DaysToEarnings = &d
	}
	return e
}
