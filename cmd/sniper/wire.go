package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/komsit37/sniper/pkg/sniper/columns"
	"github.com/komsit37/sniper/pkg/sniper/config"
	"github.com/komsit37/sniper/pkg/sniper/engine"
	"github.com/komsit37/sniper/pkg/sniper/enrich"
	"github.com/komsit37/sniper/pkg/sniper/filter"
	"github.com/komsit37/sniper/pkg/sniper/market"
	"github.com/komsit37/sniper/pkg/sniper/pipeline"
	"github.com/komsit37/sniper/pkg/sniper/portfolio"
	"github.com/komsit37/sniper/pkg/sniper/recorder"
	"github.com/komsit37/sniper/pkg/sniper/render"
	"github.com/komsit37/sniper/pkg/sniper/types"
	"github.com/komsit37/sniper/pkg/sniper/yahoo"
)

// closers collects resources opened while wiring a command.
type closers []io.Closer

func (cs closers) Close() error {
	var errs []error
	for i := len(cs) - 1; i >= 0; i-- {
		errs = append(errs, cs[i].Close())
	}
	return errors.Join(errs...)
}

func (c *cli) engine() (*engine.Engine, error) {
	cfg := c.cfg
	client := yahoo.New(
		yahoo.WithTimeout(cfg.HTTPTimeout),
		yahoo.WithRateLimit(cfg.HTTPRate),
		yahoo.WithLogger(c.logger),
	)
	prices := market.NewCacheService(market.NewYahooChart(client, c.logger), cfg.CacheTTL, cfg.CacheSize)

	var fundamentals enrich.Service
	switch cfg.Fundamentals {
	case config.SourceYahoo:
		fundamentals = enrich.NewYahooService(client, c.logger)
	case config.SourceFile:
		fs, err := enrich.NewFileService(cfg.FundFile)
		if err != nil {
			return nil, err
		}
		fundamentals = fs
	default:
		fundamentals = enrich.None{}
	}
	fundamentals = enrich.NewCacheService(fundamentals, cfg.CacheTTL, cfg.CacheSize)

	e := engine.New(prices, fundamentals, c.logger)
	if cfg.Names {
		e.Names = enrich.NewYFNames(client.YF(), cfg.HTTPTimeout)
	}
	return e, nil
}

// store picks the portfolio source: a YAML path, then the SQLite database, then the built-in sample.
func (c *cli) store() (portfolio.Store, io.Closer, error) {
	switch {
	case c.cfg.Portfolio != "":
		return portfolio.NewYAMLStore(expandHome(c.cfg.Portfolio)), nil, nil
	case c.cfg.DB != "":
		s, err := portfolio.OpenSQLite(expandHome(c.cfg.DB))
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return portfolio.NewMemoryStore(portfolio.DefaultPositions()), nil, nil
}

func (c *cli) recorder() (recorder.Recorder, error) {
	if !c.cfg.Record {
		return recorder.NewNoopRecorder(), nil
	}
	return recorder.NewSQLiteRecorder(expandHome(c.cfg.DB), c.logger)
}

// runner wires a pipeline runner; the returned closer releases its database handles.
func (c *cli) runner() (*pipeline.Runner, io.Closer, error) {
	var cs closers
	renderer, ok := render.ForFormat(c.format)
	if !ok {
		return nil, nil, fmt.Errorf("unknown format %q (table, json, syms)", c.format)
	}
	store, closer, err := c.store()
	if err != nil {
		return nil, nil, err
	}
	if closer != nil {
		cs = append(cs, closer)
	}
	eng, err := c.engine()
	if err != nil {
		_ = cs.Close()
		return nil, nil, err
	}
	rec, err := c.recorder()
	if err != nil {
		_ = cs.Close()
		return nil, nil, err
	}
	cs = append(cs, rec)
	return &pipeline.Runner{
		Store:    store,
		Engine:   eng,
		Renderer: renderer,
		Recorder: rec,
		Writer:   os.Stdout,
		Logger:   c.logger,
	}, cs, nil
}

func (c *cli) executeOptions(mode pipeline.Mode) (pipeline.ExecuteOptions, error) {
	cols, err := c.selectedColumns()
	if err != nil {
		return pipeline.ExecuteOptions{}, err
	}
	f, err := c.filter()
	if err != nil {
		return pipeline.ExecuteOptions{}, err
	}
	return pipeline.ExecuteOptions{
		Mode:        mode,
		Period:      c.cfg.Period,
		Columns:     cols,
		Filter:      f,
		Color:       c.color,
		PrettyJSON:  c.pretty,
		MaxColWidth: c.maxColWidth,
	}, nil
}

// selectedColumns expands --sets then appends --columns. Empty means the mode's default.
func (c *cli) selectedColumns() ([]string, error) {
	var cols []string
	if len(c.sets) > 0 {
		expanded, err := columns.ExpandSets(c.sets)
		if err != nil {
			return nil, err
		}
		cols = append(cols, expanded...)
	}
	cols = append(cols, c.columns...)
	if len(cols) == 0 {
		return nil, nil
	}
	cols = columns.Compute(cols)
	return cols, columns.Check(cols)
}

func (c *cli) filter() (filter.Filter, error) {
	var fs filter.And
	if c.filterExpr != "" {
		f, err := filter.Parse(c.filterExpr)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	switch strings.ToLower(c.category) {
	case "":
	case string(types.CategoryHolding), "holdings":
		fs = append(fs, filter.Category(types.CategoryHolding))
	case string(types.CategoryWatchlist), "watch":
		fs = append(fs, filter.Category(types.CategoryWatchlist))
	default:
		return nil, fmt.Errorf("unknown category %q (holding, watchlist)", c.category)
	}
	if len(fs) == 0 {
		return nil, nil
	}
	return fs, nil
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return home + string(os.PathSeparator) + rest
		}
	}
	return path
}
