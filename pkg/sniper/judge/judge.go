// Package judge turns a computed assessment into ordered tactical judgments
// and ranks holdings by earnings urgency.
package judge

import (
	"math"
	"sort"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// Thresholds.
const (
	EarningsWindowDays   = 14
	InstitutionBackedPct = 50.0
	ElevatedShortPct     = 10.0
)

// UnknownDays is the rank of an entry without a usable earnings countdown.
const UnknownDays = math.MaxInt

// Inputs are the assessment fields the rules read.
type Inputs struct {
	LatestPrice               float64
	EMA20                     float64
	EMA200                    float64
	SharesTrendPct            *float64
	DaysToEarnings            *int
	InstitutionalOwnershipPct *float64
	ShortInterestPct          *float64
}

// From extracts rule inputs from an assessment.
func From(a *types.TacticalAssessment) Inputs {
	return Inputs{
		LatestPrice:               a.LatestPrice,
		EMA20:                     a.Latest.EMA20,
		EMA200:                    a.Latest.EMA200,
		SharesTrendPct:            a.SharesTrendPct,
		DaysToEarnings:            a.DaysToEarnings,
		InstitutionalOwnershipPct: a.InstitutionalOwnershipPct,
		ShortInterestPct:          a.ShortInterestPct,
	}
}

var (
	bullishBias     = types.Judgment{Code: types.JudgmentBullishBias, Text: "bullish short-term bias", Tone: types.ToneBullish}
	bearishLongTerm = types.Judgment{Code: types.JudgmentBearishLongTerm, Text: "bearish - below long-term line", Tone: types.ToneBearish}
	rangeBound      = types.Judgment{Code: types.JudgmentRangeBound, Text: "range-bound", Tone: types.ToneNeutral}
	shrinkingFloat  = types.Judgment{Code: types.JudgmentShrinkingFloat, Text: "shrinking float (buyback)", Tone: types.ToneBullish}
	dilutionRisk    = types.Judgment{Code: types.JudgmentDilutionRisk, Text: "dilution risk", Tone: types.ToneBearish}
	earningsWindow  = types.Judgment{Code: types.JudgmentEarningsWindow, Text: "earnings-window warning", Tone: types.ToneWarning}
	institutionBack = types.Judgment{Code: types.JudgmentInstitutionBack, Text: "institution-backed", Tone: types.ToneBullish}
	elevatedShort   = types.Judgment{Code: types.JudgmentElevatedShortInt, Text: "elevated short interest", Tone: types.ToneWarning}
)

// Judge evaluates the rules in display order: trend, shares, earnings, ownership, short interest.
// Absent inputs never fire a rule.
func Judge(in Inputs) []types.Judgment {
	out := make([]types.Judgment, 0, 5)

	switch {
	case in.LatestPrice > in.EMA20:
		out = append(out, bullishBias)
	case in.LatestPrice < in.EMA200:
		out = append(out, bearishLongTerm)
	default:
		out = append(out, rangeBound)
	}

	if p := in.SharesTrendPct; p != nil {
		switch {
		case *p < 0:
			out = append(out, shrinkingFloat)
		case *p > 0:
			out = append(out, dilutionRisk)
		}
	}

	if d := in.DaysToEarnings; d != nil && *d >= 0 && *d <= EarningsWindowDays {
		out = append(out, earningsWindow)
	}

	if p := in.InstitutionalOwnershipPct; p != nil && *p > InstitutionBackedPct {
		out = append(out, institutionBack)
	}

	if p := in.ShortInterestPct; p != nil && *p > ElevatedShortPct {
		out = append(out, elevatedShort)
	}

	return out
}

// DaysKey is the sort key Rank uses for an entry.
func DaysKey(e types.Entry) int {
	if e.Err != nil || e.Assessment == nil || e.Assessment.DaysToEarnings == nil {
		return UnknownDays
	}
	return *e.Assessment.DaysToEarnings
}

// Rank keeps holdings only and orders them by days to earnings, unknown last.
// Ties keep their input order. The input slice is not modified.
func Rank(entries []types.Entry) []types.Entry {
	out := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Position.Category == types.CategoryHolding {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return DaysKey(out[i]) < DaysKey(out[j]) })
	return out
}
