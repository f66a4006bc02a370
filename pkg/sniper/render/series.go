package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/sniper/pkg/sniper/indicator"
	"github.com/komsit37/sniper/pkg/sniper/types"
)

// SeriesOptions control per-bar output. Tail keeps only the last n rows when positive.
type SeriesOptions struct {
	Tail       int
	Color      bool
	PrettyJSON bool
}

type seriesRow struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
	jsonIndicators
}

func seriesRows(bars []types.PriceBar, s indicator.Series, tail int) []seriesRow {
	n := len(bars)
	if s.Len() < n {
		n = s.Len()
	}
	start := 0
	if tail > 0 && tail < n {
		start = n - tail
	}
	rows := make([]seriesRow, 0, n-start)
	for i := start; i < n; i++ {
		rows = append(rows, seriesRow{
			Date:           bars[i].Date.Format(time.DateOnly),
			Close:          bars[i].Close,
			jsonIndicators: toJSONIndicators(s.At(i)),
		})
	}
	return rows
}

// SeriesTable writes one row per bar: close plus every indicator.
func SeriesTable(w io.Writer, ticker string, bars []types.PriceBar, s indicator.Series, opts SeriesOptions) error {
	fmt.Fprintln(w, title(ticker, opts.Color))

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	if !opts.Color {
		tw.Style().Color = table.ColorOptions{}
	}

	hdr := table.Row{"DATE", "CLOSE", "EMA20", "EMA50", "EMA200", "MACD", "SIGNAL", "HIST"}
	tw.AppendHeader(hdr)
	cfgs := make([]table.ColumnConfig, 0, len(hdr)-1)
	for i := 2; i <= len(hdr); i++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	tw.SetColumnConfigs(cfgs)

	for _, r := range seriesRows(bars, s, opts.Tail) {
		hist := strconv.FormatFloat(r.Histogram, 'f', 3, 64)
		if opts.Color {
			switch {
			case r.Histogram > 0:
				hist = text.Colors{text.FgGreen}.Sprint(hist)
			case r.Histogram < 0:
				hist = text.Colors{text.FgRed}.Sprint(hist)
			}
		}
		tw.AppendRow(table.Row{
			r.Date,
			f2(r.Close), f2(r.EMA20), f2(r.EMA50), f2(r.EMA200),
			strconv.FormatFloat(r.MACD, 'f', 3, 64),
			strconv.FormatFloat(r.Signal, 'f', 3, 64),
			hist,
		})
	}
	tw.Render()
	return nil
}

// SeriesJSON writes the same rows as a JSON document.
func SeriesJSON(w io.Writer, ticker string, bars []types.PriceBar, s indicator.Series, opts SeriesOptions) error {
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(struct {
		Ticker string      `json:"ticker"`
		Rows   []seriesRow `json:"rows"`
	}{ticker, seriesRows(bars, s, opts.Tail)})
}

func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
