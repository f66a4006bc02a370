package pipeline

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/komsit37/sniper/pkg/sniper/columns"
	"github.com/komsit37/sniper/pkg/sniper/filter"
	"github.com/komsit37/sniper/pkg/sniper/portfolio"
	"github.com/komsit37/sniper/pkg/sniper/recorder"
	"github.com/komsit37/sniper/pkg/sniper/render"
	"github.com/komsit37/sniper/pkg/sniper/types"
)

// Mode selects what Execute produces.
type Mode string

const (
	// ModeList prints the portfolio without fetching anything.
	ModeList Mode = "list"
	// ModeBoard assesses every position, split into holdings and watchlist sheets.
	ModeBoard Mode = "board"
	// ModeRadar ranks holdings by days to earnings in one sheet.
	ModeRadar Mode = "radar"
)

var listColumns = []string{"ticker", "cat", "cost", "note"}

// Evaluator assesses positions; implemented by engine.Engine.
type Evaluator interface {
	Evaluate(ctx context.Context, positions []types.Position, period types.Period) []types.Entry
	Radar(ctx context.Context, positions []types.Position, period types.Period) []types.Entry
}

type Runner struct {
	Store    portfolio.Store
	Engine   Evaluator
	Renderer render.Renderer
	Recorder recorder.Recorder
	Writer   io.Writer
	Logger   *zap.Logger
}

type ExecuteOptions struct {
	Mode        Mode
	Period      types.Period
	Columns     []string
	Filter      filter.Filter
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
}

func (r *Runner) Execute(ctx context.Context, opts ExecuteOptions) error {
	if len(opts.Columns) > 0 {
		if err := columns.Check(opts.Columns); err != nil {
			return err
		}
	}
	positions, err := r.Store.ListPositions(ctx)
	if err != nil {
		return fmt.Errorf("list positions: %w", err)
	}

	var filt filter.Filter = filter.Always(true)
	if opts.Filter != nil {
		filt = opts.Filter
	}
	positions = filter.Apply(filt, positions)

	sheets, err := r.sheets(ctx, positions, opts)
	if err != nil {
		return err
	}
	for i := range sheets {
		if len(opts.Columns) > 0 {
			sheets[i].Columns = columns.Compute(opts.Columns)
		}
	}

	return r.Renderer.Render(r.Writer, sheets, render.RenderOptions{
		Columns:     opts.Columns,
		Color:       opts.Color,
		PrettyJSON:  opts.PrettyJSON,
		MaxColWidth: opts.MaxColWidth,
	})
}

func (r *Runner) sheets(ctx context.Context, positions []types.Position, opts ExecuteOptions) ([]types.Sheet, error) {
	switch opts.Mode {
	case ModeList:
		holdings, watch := portfolio.Split(positions)
		return nonEmpty(
			types.Sheet{Name: "holdings", Columns: listColumns, Entries: bare(holdings)},
			types.Sheet{Name: "watchlist", Columns: listColumns, Entries: bare(watch)},
		), nil
	case ModeBoard, "":
		holdings, watch := portfolio.Split(positions)
		return nonEmpty(
			types.Sheet{Name: "holdings", Columns: columns.Default, Entries: r.evaluate(ctx, holdings, opts.Period)},
			types.Sheet{Name: "watchlist", Columns: columns.Default, Entries: r.evaluate(ctx, watch, opts.Period)},
		), nil
	case ModeRadar:
		entries := r.Engine.Radar(ctx, positions, opts.Period)
		r.record(ctx, entries)
		return []types.Sheet{{Name: "radar", Columns: columns.Sets["radar"], Entries: entries}}, nil
	}
	return nil, fmt.Errorf("unknown mode %q", opts.Mode)
}

func (r *Runner) evaluate(ctx context.Context, ps []types.Position, period types.Period) []types.Entry {
	if len(ps) == 0 {
		return nil
	}
	entries := r.Engine.Evaluate(ctx, ps, period)
	r.record(ctx, entries)
	return entries
}

// record stores every successful assessment; failures are logged and skipped.
func (r *Runner) record(ctx context.Context, entries []types.Entry) {
	if r.Recorder == nil {
		return
	}
	for _, e := range entries {
		if e.Assessment == nil {
			continue
		}
		if err := r.Recorder.RecordAssessment(ctx, e.Assessment); err != nil && r.Logger != nil {
			r.Logger.Warn("record assessment", zap.String("ticker", e.Position.Ticker), zap.Error(err))
		}
	}
}

func bare(ps []types.Position) []types.Entry {
	out := make([]types.Entry, len(ps))
	for i, p := range ps {
		out[i] = types.Entry{Position: p}
	}
	return out
}

func nonEmpty(sheets ...types.Sheet) []types.Sheet {
	out := make([]types.Sheet, 0, len(sheets))
	for _, s := range sheets {
		if len(s.Entries) > 0 {
			out = append(out, s)
		}
	}
	return out
}
