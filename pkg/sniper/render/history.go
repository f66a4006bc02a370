package render

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/sniper/pkg/sniper/recorder"
)

var historyHeader = table.Row{"RECORDED", "PERIOD", "ASOF", "PRICE", "CHG%", "PL%", "EMA20", "EMA200", "MACD", "EARN", "JUDGMENTS"}

// HistoryTable prints recorded assessments one per row.
func HistoryTable(w io.Writer, records []recorder.Record, color bool) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	if !color {
		tw.Style().Color = table.ColorOptions{}
	}
	tw.AppendHeader(historyHeader)
	cfgs := make([]table.ColumnConfig, 0, 7)
	for n := 4; n <= 10; n++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	tw.SetColumnConfigs(cfgs)

	for _, r := range records {
		pl := ""
		if r.PLPct != nil {
			pl = *r.PLPct
		}
		earn := ""
		if r.DaysToEarnings != nil {
			earn = strconv.Itoa(*r.DaysToEarnings) + "d"
		}
		tw.AppendRow(table.Row{
			r.RecordedAt.Local().Format("2006-01-02 15:04"),
			r.Period,
			r.AsOf.Format(time.DateOnly),
			f2(r.LatestPrice),
			f2(r.PriceChangePct),
			pl,
			f2(r.EMA20),
			f2(r.EMA200),
			strconv.FormatFloat(r.MACD, 'f', 3, 64),
			earn,
			strings.ReplaceAll(r.Judgments, ",", ", "),
		})
	}
	tw.Render()
	return nil
}

type historyRow struct {
	RecordedAt     time.Time `json:"recorded_at"`
	Ticker         string    `json:"ticker"`
	Period         string    `json:"period"`
	AsOf           string    `json:"as_of"`
	LatestPrice    float64   `json:"latest_price"`
	PriceChangePct float64   `json:"price_change_pct"`
	PLPct          *string   `json:"pl_pct,omitempty"`
	EMA20          float64   `json:"ema20"`
	EMA50          float64   `json:"ema50"`
	EMA200         float64   `json:"ema200"`
	MACD           float64   `json:"macd"`
	Signal         float64   `json:"signal"`
	Histogram      float64   `json:"histogram"`
	DaysToEarnings *int      `json:"days_to_earnings,omitempty"`
	Judgments      []string  `json:"judgments"`
}

// HistoryJSON writes recorded assessments as a JSON array.
func HistoryJSON(w io.Writer, records []recorder.Record, pretty bool) error {
	rows := make([]historyRow, len(records))
	for i, r := range records {
		codes := []string{}
		if r.Judgments != "" {
			codes = strings.Split(r.Judgments, ",")
		}
		rows[i] = historyRow{
			RecordedAt:     r.RecordedAt,
			Ticker:         r.Ticker,
			Period:         r.Period,
			AsOf:           r.AsOf.Format(time.DateOnly),
			LatestPrice:    r.LatestPrice,
			PriceChangePct: r.PriceChangePct,
			PLPct:          r.PLPct,
			EMA20:          r.EMA20,
			EMA50:          r.EMA50,
			EMA200:         r.EMA200,
			MACD:           r.MACD,
			Signal:         r.Signal,
			Histogram:      r.Histogram,
			DaysToEarnings: r.DaysToEarnings,
			Judgments:      codes,
		}
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rows)
}
