// Package indicator computes exponential moving averages and MACD over a price series.
package indicator

import (
	"github.com/komsit37/sniper/pkg/sniper/normalize"
	"github.com/komsit37/sniper/pkg/sniper/types"
)

// Spans used by Compute.
const (
	SpanShort  = 20
	SpanMedium = 50
	SpanLong   = 200

	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// Series holds indicators aligned 1:1 with the input bars.
type Series struct {
	EMA20     []float64
	EMA50     []float64
	EMA200    []float64
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// EMA returns the recursive (adjust=false) exponential moving average of values.
// alpha = 2/(span+1), ema[0] = values[0], ema[i] = alpha*values[i] + (1-alpha)*ema[i-1].
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 || span <= 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Compute derives EMA20/50/200 and MACD(12,26,9) from closes.
func Compute(bars []types.PriceBar) Series {
	closes := normalize.Closes(bars)

	fast := EMA(closes, MACDFast)
	slow := EMA(closes, MACDSlow)
	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = fast[i] - slow[i]
	}
	signal := EMA(macd, MACDSignal)
	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = macd[i] - signal[i]
	}

	return Series{
		EMA20:     EMA(closes, SpanShort),
		EMA50:     EMA(closes, SpanMedium),
		EMA200:    EMA(closes, SpanLong),
		MACD:      macd,
		Signal:    signal,
		Histogram: hist,
	}
}

// Len is the number of aligned rows.
func (s Series) Len() int { return len(s.MACD) }

// At returns row i. It panics on out-of-range i like a slice index.
func (s Series) At(i int) types.IndicatorPoint {
	return types.IndicatorPoint{
		EMA20:     s.EMA20[i],
		EMA50:     s.EMA50[i],
		EMA200:    s.EMA200[i],
		MACD:      s.MACD[i],
		Signal:    s.Signal[i],
		Histogram: s.Histogram[i],
	}
}

// Last returns the most recent row and false for an empty series.
func (s Series) Last() (types.IndicatorPoint, bool) {
	if s.Len() == 0 {
		return types.IndicatorPoint{}, false
	}
	return s.At(s.Len() - 1), true
}

// WarmupAdequate reports whether a period covers at least span sessions. Values are
// still produced for short periods; early long-span readings are low confidence.
func WarmupAdequate(p types.Period, span int) bool {
	return p.TradingDays() >= span
}
