// Package normalize turns raw provider price tables into ascending PriceBar sequences.
package normalize

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// RawTable is a provider price table. Header holds one entry per column listing the
// column levels outer-first; a multi-symbol download yields two levels per column.
type RawTable struct {
	Header [][]string
	Index  []time.Time
	Rows   [][]float64
}

// Table flattens, sorts and dedupes a raw table into PriceBars.
func Table(raw RawTable) ([]types.PriceBar, error) {
	if len(raw.Index) == 0 {
		return nil, types.ErrEmptySeries
	}
	if len(raw.Rows) != len(raw.Index) {
		return nil, malformed("index has %d rows, values have %d", len(raw.Index), len(raw.Rows))
	}

	cols := Flatten(raw.Header)
	idx := map[string]int{}
	for i, c := range cols {
		key := strings.ToLower(strings.TrimSpace(c))
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	closeIdx, ok := idx["close"]
	if !ok {
		return nil, malformed("no close column in %v", cols)
	}
	lookup := func(row []float64, name string) float64 {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return math.NaN()
		}
		return row[i]
	}

	bars := make([]types.PriceBar, 0, len(raw.Rows))
	for r, row := range raw.Rows {
		if len(row) != len(cols) {
			return nil, malformed("row %d has %d values for %d columns", r, len(row), len(cols))
		}
		c := row[closeIdx]
		// provider null bars (holidays, halted sessions)
		if math.IsNaN(c) || c <= 0 {
			continue
		}
		bar := types.PriceBar{
			Date:  Date(raw.Index[r]),
			Open:  orClose(lookup(row, "open"), c),
			High:  orClose(lookup(row, "high"), c),
			Low:   orClose(lookup(row, "low"), c),
			Close: c,
		}
		if v := lookup(row, "volume"); !math.IsNaN(v) && v > 0 {
			bar.Volume = int64(v)
		}
		bars = append(bars, bar)
	}
	return Bars(bars)
}

// Bars sorts bars ascending by date and collapses duplicate dates, keeping the last one seen.
func Bars(bars []types.PriceBar) ([]types.PriceBar, error) {
	if len(bars) == 0 {
		return nil, types.ErrEmptySeries
	}
	out := make([]types.PriceBar, len(bars))
	copy(out, bars)
	for i := range out {
		out[i].Date = Date(out[i].Date)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	n := 0
	for i := range out {
		if n > 0 && out[n-1].Date.Equal(out[i].Date) {
			out[n-1] = out[i]
			continue
		}
		out[n] = out[i]
		n++
	}
	return out[:n], nil
}

// Flatten reduces multi-level column headers to their outer level.
func Flatten(header [][]string) []string {
	out := make([]string, len(header))
	for i, levels := range header {
		if len(levels) > 0 {
			out[i] = levels[0]
		}
	}
	return out
}

// Date truncates t to its calendar date in UTC, preserving the wall-clock day of t's location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Closes extracts the close column.
func Closes(bars []types.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func orClose(v, c float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return c
	}
	return v
}

func malformed(format string, args ...any) error {
	return &types.SourceError{Source: "normalize", Err: fmt.Errorf(format, args...)}
}
