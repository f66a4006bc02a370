package columns

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/komsit37/sniper/pkg/sniper/indicator"
	"github.com/komsit37/sniper/pkg/sniper/judge"
	"github.com/komsit37/sniper/pkg/sniper/types"
)

// Resolver converts an entry into a string value for a given column.
// An empty string means the value is absent.
type Resolver func(e types.Entry) string

// Registry maps column keys to resolvers.
var Registry = map[string]Resolver{}

// Default is the column order used when none is requested.
var Default = []string{"ticker", "name", "price", "chg%", "pl%", "ema20", "ema200", "macd", "hist", "earn", "judgments"}

func init() {
	Registry["ticker"] = func(e types.Entry) string { return e.Position.Ticker }
	Registry["name"] = func(e types.Entry) string { return e.Name }
	Registry["cat"] = func(e types.Entry) string { return string(e.Position.Category) }
	Registry["note"] = func(e types.Entry) string { return e.Position.Note }
	Registry["cost"] = func(e types.Entry) string {
		if !e.Position.CostBasis.Valid {
			return ""
		}
		return formatDecimalComma(e.Position.CostBasis.Decimal, 2)
	}
	// error: the taxonomy label, empty when assessed
	Registry["error"] = func(e types.Entry) string { return types.Reason(e.Err) }

	Registry["price"] = assessed(func(a *types.TacticalAssessment) string { return formatFloatComma(a.LatestPrice, 2) })
	Registry["chg"] = assessed(func(a *types.TacticalAssessment) string { return signed(a.PriceChange, 2) })
	Registry["chg%"] = assessed(func(a *types.TacticalAssessment) string { return signed(a.PriceChangePct, 2) + "%" })
	Registry["asof"] = assessed(func(a *types.TacticalAssessment) string { return a.AsOf.Format("2006-01-02") })
	Registry["pl"] = assessed(func(a *types.TacticalAssessment) string {
		if a.ProfitLoss == nil {
			return ""
		}
		return signedDecimal(a.ProfitLoss.Amount)
	})
	Registry["pl%"] = assessed(func(a *types.TacticalAssessment) string {
		if a.ProfitLoss == nil {
			return ""
		}
		return signedDecimal(a.ProfitLoss.Pct) + "%"
	})
	Registry["ema20"] = assessed(func(a *types.TacticalAssessment) string { return formatFloatComma(a.Latest.EMA20, 2) })
	Registry["ema50"] = assessed(func(a *types.TacticalAssessment) string { return formatFloatComma(a.Latest.EMA50, 2) })
	// ema200 is starred when the period is too short for the average to settle
	Registry["ema200"] = assessed(func(a *types.TacticalAssessment) string {
		s := formatFloatComma(a.Latest.EMA200, 2)
		if !indicator.WarmupAdequate(a.Period, indicator.SpanLong) {
			s += "*"
		}
		return s
	})
	Registry["macd"] = assessed(func(a *types.TacticalAssessment) string { return signed(a.Latest.MACD, 3) })
	Registry["signal"] = assessed(func(a *types.TacticalAssessment) string { return signed(a.Latest.Signal, 3) })
	Registry["hist"] = assessed(func(a *types.TacticalAssessment) string { return signed(a.Latest.Histogram, 3) })
	Registry["shares%"] = assessed(func(a *types.TacticalAssessment) string { return pct(a.SharesTrendPct, true) })
	Registry["inst%"] = assessed(func(a *types.TacticalAssessment) string { return pct(a.InstitutionalOwnershipPct, false) })
	Registry["short%"] = assessed(func(a *types.TacticalAssessment) string { return pct(a.ShortInterestPct, false) })
	Registry["earn"] = assessed(func(a *types.TacticalAssessment) string {
		if a.DaysToEarnings == nil {
			if !a.FundamentalsApplicable {
				return "n/a"
			}
			return ""
		}
		return strconv.Itoa(*a.DaysToEarnings) + "d"
	})
	Registry["judgments"] = assessed(func(a *types.TacticalAssessment) string {
		parts := make([]string, len(a.Judgments))
		for i, j := range a.Judgments {
			parts[i] = j.Text
		}
		return strings.Join(parts, "; ")
	})
}

func assessed(f func(a *types.TacticalAssessment) string) Resolver {
	return func(e types.Entry) string {
		if e.Assessment == nil {
			return ""
		}
		return f(e.Assessment)
	}
}

// Compute determines the final column order: explicit columns deduped
// in order, or Default when none are given.
func Compute(explicit []string) []string {
	if len(explicit) == 0 {
		return append([]string(nil), Default...)
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(explicit))
	for _, k := range explicit {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// UnknownColumnError reports a column with no resolver.
type UnknownColumnError struct {
	Name string
}

func (e *UnknownColumnError) Error() string { return "unknown column: " + e.Name }

// Check returns an error for the first column without a resolver.
func Check(cols []string) error {
	for _, c := range cols {
		if _, ok := Registry[c]; !ok {
			return &UnknownColumnError{Name: c}
		}
	}
	return nil
}

// RenderValue calls the resolver for the given column.
func RenderValue(col string, e types.Entry) string {
	if r, ok := Registry[col]; ok {
		return r(e)
	}
	return ""
}

func signed(v float64, decimals int) string {
	s := formatFloatComma(v, decimals)
	if v > 0 {
		return "+" + s
	}
	return s
}

func signedDecimal(d decimal.Decimal) string {
	s := formatDecimalComma(d, 2)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

func pct(v *float64, sign bool) string {
	if v == nil {
		return ""
	}
	if sign {
		return signed(*v, 1) + "%"
	}
	return formatFloatComma(*v, 1) + "%"
}

func formatDecimalComma(d decimal.Decimal, decimals int32) string {
	return commaInt(d.StringFixed(decimals))
}

// formatFloatComma formats a float with a fixed number of decimals and comma separators.
func formatFloatComma(v float64, decimals int) string {
	return commaInt(strconv.FormatFloat(v, 'f', decimals, 64))
}

func commaInt(s string) string {
	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}
	sign := ""
	if strings.HasPrefix(intPart, "-") || strings.HasPrefix(intPart, "+") {
		sign = intPart[:1]
		intPart = intPart[1:]
	}
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + fracPart
	}
	out := make([]byte, 0, n+n/3)
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	out = append(out, intPart[:rem]...)
	for i := rem; i < n; i += 3 {
		out = append(out, ',')
		out = append(out, intPart[i:i+3]...)
	}
	return sign + string(out) + fracPart
}

// Tone returns the coloring hint for a cell: positive, negative or neutral numbers.
func Tone(col string, e types.Entry) types.Tone {
	if e.Assessment == nil {
		return types.ToneNeutral
	}
	a := e.Assessment
	var v float64
	switch col {
	case "chg", "chg%":
		v = a.PriceChange
	case "pl", "pl%":
		if a.ProfitLoss == nil {
			return types.ToneNeutral
		}
		v = a.ProfitLoss.Amount.InexactFloat64()
	case "macd":
		v = a.Latest.MACD
	case "hist":
		v = a.Latest.Histogram
	case "shares%":
		if a.SharesTrendPct == nil {
			return types.ToneNeutral
		}
		v = -*a.SharesTrendPct
	case "earn":
		if a.DaysToEarnings != nil && *a.DaysToEarnings <= judge.EarningsWindowDays {
			return types.ToneWarning
		}
		return types.ToneNeutral
	default:
		return types.ToneNeutral
	}
	switch {
	case v > 0:
		return types.ToneBullish
	case v < 0:
		return types.ToneBearish
	}
	return types.ToneNeutral
}
