package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/sniper/pkg/sniper/columns"
	"github.com/komsit37/sniper/pkg/sniper/types"
)

type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

var rightAligned = map[string]bool{
	"price": true, "chg": true, "chg%": true, "cost": true, "pl": true, "pl%": true,
	"ema20": true, "ema50": true, "ema200": true, "macd": true, "signal": true, "hist": true,
	"shares%": true, "inst%": true, "short%": true, "earn": true,
}

func (r *TableRenderer) Render(w io.Writer, sheets []types.Sheet, opts RenderOptions) error {
	multi := len(sheets) > 1
	for si, sheet := range sheets {
		cols := sheet.Columns
		if len(opts.Columns) > 0 {
			cols = opts.Columns
		}
		cols = withErrorColumn(cols, sheet.Entries)

		// Print sheet name as a standalone line spanning full width
		if multi && strings.TrimSpace(sheet.Name) != "" {
			fmt.Fprintln(w, title(strings.ToUpper(sheet.Name), opts.Color))
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.SetStyle(table.StyleColoredDark)
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateRows = false
		tw.Style().Options.SeparateColumns = false
		if !opts.Color {
			tw.Style().Color = table.ColorOptions{}
		}

		hdr := make(table.Row, len(cols))
		for i, c := range cols {
			hdr[i] = strings.ToUpper(c)
		}
		tw.AppendHeader(hdr)

		// wrap text to MaxColWidth (default 40), no truncation
		maxWidth := opts.MaxColWidth
		if maxWidth <= 0 {
			maxWidth = 40
		}
		cfgs := make([]table.ColumnConfig, 0, len(cols))
		for i, c := range cols {
			cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
			if rightAligned[c] {
				cfg.Align = text.AlignRight
				cfg.AlignHeader = text.AlignRight
			}
			cfgs = append(cfgs, cfg)
		}
		tw.SetColumnConfigs(cfgs)

		for _, e := range sheet.Entries {
			row := make(table.Row, len(cols))
			for i, c := range cols {
				row[i] = cell(c, e, opts.Color)
			}
			tw.AppendRow(row)
		}

		tw.Render()
		if si < len(sheets)-1 {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func cell(col string, e types.Entry, color bool) string {
	if col == "judgments" && color && e.Assessment != nil {
		parts := make([]string, len(e.Assessment.Judgments))
		for i, j := range e.Assessment.Judgments {
			parts[i] = paint(j.Tone, j.Text)
		}
		return strings.Join(parts, "; ")
	}
	v := columns.RenderValue(col, e)
	if !color || v == "" {
		return v
	}
	if col == "error" {
		return text.Faint.Sprint(v)
	}
	return paint(columns.Tone(col, e), v)
}

func title(s string, color bool) string {
	if !color {
		return s
	}
	return text.Bold.Sprint(s)
}

func paint(t types.Tone, s string) string {
	switch t {
	case types.ToneBullish:
		return text.Colors{text.FgGreen}.Sprint(s)
	case types.ToneBearish:
		return text.Colors{text.FgRed}.Sprint(s)
	case types.ToneWarning:
		return text.Colors{text.FgYellow}.Sprint(s)
	}
	return s
}

// withErrorColumn appends the error column when an entry failed and it was not requested.
func withErrorColumn(cols []string, entries []types.Entry) []string {
	for _, c := range cols {
		if c == "error" {
			return cols
		}
	}
	for _, e := range entries {
		if e.Err != nil {
			return append(append([]string(nil), cols...), "error")
		}
	}
	return cols
}
