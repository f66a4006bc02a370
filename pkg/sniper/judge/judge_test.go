package judge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

func f(v float64) *float64 { return &v }
func d(v int) *int         { return &v }

func codes(js []types.Judgment) []types.JudgmentCode {
	out := make([]types.JudgmentCode, len(js))
	for i, j := range js {
		out[i] = j.Code
	}
	return out
}

func TestJudgeTrend(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want types.JudgmentCode
	}{
		{"above ema20", Inputs{LatestPrice: 110, EMA20: 100, EMA200: 120}, types.JudgmentBullishBias},
		{"below ema200", Inputs{LatestPrice: 90, EMA20: 100, EMA200: 95}, types.JudgmentBearishLongTerm},
		{"between", Inputs{LatestPrice: 100, EMA20: 105, EMA200: 95}, types.JudgmentRangeBound},
		{"equal ema20 is not bullish", Inputs{LatestPrice: 100, EMA20: 100, EMA200: 100}, types.JudgmentRangeBound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Judge(tt.in)
			assert.Equal(t, []types.JudgmentCode{tt.want}, codes(got))
		})
	}
}

func TestJudgeOrderAndThresholds(t *testing.T) {
	in := Inputs{
		LatestPrice:               120,
		EMA20:                     110,
		EMA200:                    90,
		SharesTrendPct:            f(-10),
		DaysToEarnings:            d(14),
		InstitutionalOwnershipPct: f(65),
		ShortInterestPct:          f(12),
	}
	assert.Equal(t, []types.JudgmentCode{
		types.JudgmentBullishBias,
		types.JudgmentShrinkingFloat,
		types.JudgmentEarningsWindow,
		types.JudgmentInstitutionBack,
		types.JudgmentElevatedShortInt,
	}, codes(Judge(in)))

	in.SharesTrendPct = f(2)
	in.DaysToEarnings = d(15)
	in.InstitutionalOwnershipPct = f(50)
	in.ShortInterestPct = f(10)
	assert.Equal(t, []types.JudgmentCode{
		types.JudgmentBullishBias,
		types.JudgmentDilutionRisk,
	}, codes(Judge(in)))

	in.SharesTrendPct = f(0)
	in.DaysToEarnings = d(0)
	assert.Equal(t, []types.JudgmentCode{
		types.JudgmentBullishBias,
		types.JudgmentEarningsWindow,
	}, codes(Judge(in)))
}

func TestJudgeAbsentInputs(t *testing.T) {
	got := Judge(Inputs{LatestPrice: 10, EMA20: 10, EMA200: 10})
	assert.Len(t, got, 1)
	assert.Equal(t, "range-bound", got[0].Text)
}

func TestFrom(t *testing.T) {
	a := &types.TacticalAssessment{
		LatestPrice:    50,
		Latest:         types.IndicatorPoint{EMA20: 40, EMA200: 60},
		SharesTrendPct: f(-1),
	}
	in := From(a)
	assert.Equal(t, 50.0, in.LatestPrice)
	assert.Equal(t, 40.0, in.EMA20)
	assert.Equal(t, 60.0, in.EMA200)
	assert.Equal(t, []types.JudgmentCode{types.JudgmentBullishBias, types.JudgmentShrinkingFloat}, codes(Judge(in)))
}

func holding(ticker string, days *int) types.Entry {
	return types.Entry{
		Position:   types.Position{Ticker: ticker, Category: types.CategoryHolding},
		Assessment: &types.TacticalAssessment{Ticker: ticker, DaysToEarnings: days},
	}
}

func tickers(es []types.Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Position.Ticker
	}
	return out
}

func TestRankByEarnings(t *testing.T) {
	in := []types.Entry{
		holding("D30", d(30)),
		holding("UNK", nil),
		holding("D5", d(5)),
		holding("D12", d(12)),
	}
	got := Rank(in)
	assert.Equal(t, []string{"D5", "D12", "D30", "UNK"}, tickers(got))
	assert.Equal(t, "D30", in[0].Position.Ticker, "input order untouched")
}

func TestRankHoldingsOnlyAndFailures(t *testing.T) {
	watch := holding("WATCH", d(1))
	watch.Position.Category = types.CategoryWatchlist
	failed := types.Entry{
		Position: types.Position{Ticker: "FAIL", Category: types.CategoryHolding},
		Err:      errors.New("fetch failed"),
	}

	got := Rank([]types.Entry{
		failed,
		watch,
		holding("A", d(3)),
		holding("B", nil),
		holding("C", d(3)),
	})
	assert.Equal(t, []string{"A", "C", "FAIL", "B"}, tickers(got))
	assert.Empty(t, Rank(nil))
}
