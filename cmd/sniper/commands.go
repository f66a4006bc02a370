package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/komsit37/sniper/pkg/sniper/columns"
	"github.com/komsit37/sniper/pkg/sniper/enrich"
	"github.com/komsit37/sniper/pkg/sniper/pipeline"
	"github.com/komsit37/sniper/pkg/sniper/portfolio"
	"github.com/komsit37/sniper/pkg/sniper/recorder"
	"github.com/komsit37/sniper/pkg/sniper/render"
	"github.com/komsit37/sniper/pkg/sniper/types"
	"github.com/komsit37/sniper/pkg/sniper/watch"
)

func (c *cli) showCmd() *cobra.Command {
	var cost string
	cmd := &cobra.Command{
		Use:   "show <ticker>",
		Short: "Assess one ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			basis := types.NoCost
			if cost != "" {
				d, err := decimal.NewFromString(cost)
				if err != nil {
					return fmt.Errorf("cost %q: %w", cost, err)
				}
				basis = decimal.NewNullDecimal(d)
			}
			cols, err := c.selectedColumns()
			if err != nil {
				return err
			}
			renderer, ok := render.ForFormat(c.format)
			if !ok {
				return fmt.Errorf("unknown format %q (table, json, syms)", c.format)
			}
			eng, err := c.engine()
			if err != nil {
				return err
			}
			rec, err := c.recorder()
			if err != nil {
				return err
			}
			defer rec.Close()

			ctx := cmd.Context()
			ticker := strings.ToUpper(strings.TrimSpace(args[0]))
			entry := types.Entry{Position: types.Position{Ticker: ticker, CostBasis: basis, Category: types.CategoryHolding}}
			entry.Assessment, entry.Err = eng.Assess(ctx, ticker, c.cfg.Period, basis)
			if entry.Assessment != nil {
				if err := rec.RecordAssessment(ctx, entry.Assessment); err != nil {
					c.logger.Warn("record assessment", zap.String("ticker", ticker), zap.Error(err))
				}
			}
			entry.Name = lookupName(ctx, eng.Names, ticker)

			sheet := types.Sheet{Name: ticker, Columns: columns.Default, Entries: []types.Entry{entry}}
			if len(cols) > 0 {
				sheet.Columns = cols
			}
			if err := renderer.Render(os.Stdout, []types.Sheet{sheet}, c.renderOptions(cols)); err != nil {
				return err
			}
			return entry.Err
		},
	}
	cmd.Flags().StringVar(&cost, "cost", "", "cost basis for profit/loss")
	return cmd
}

func lookupName(ctx context.Context, names enrich.NameService, ticker string) string {
	if names == nil {
		return ""
	}
	n, _ := names.Name(ctx, ticker)
	return n
}

func (c *cli) renderOptions(cols []string) render.RenderOptions {
	return render.RenderOptions{Columns: cols, Color: c.color, PrettyJSON: c.pretty, MaxColWidth: c.maxColWidth}
}

func (c *cli) modeCmd(use, short string, mode pipeline.Mode) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.execute(cmd.Context(), mode)
		},
	}
}

func (c *cli) execute(ctx context.Context, mode pipeline.Mode) error {
	opts, err := c.executeOptions(mode)
	if err != nil {
		return err
	}
	r, closer, err := c.runner()
	if err != nil {
		return err
	}
	defer closer.Close()
	return r.Execute(ctx, opts)
}

func (c *cli) listCmd() *cobra.Command {
	return c.modeCmd("list", "List portfolio positions without fetching prices", pipeline.ModeList)
}

func (c *cli) boardCmd() *cobra.Command {
	return c.modeCmd("board", "Assess holdings and watchlist", pipeline.ModeBoard)
}

func (c *cli) radarCmd() *cobra.Command {
	return c.modeCmd("radar", "Rank holdings by days to earnings", pipeline.ModeRadar)
}

func (c *cli) seriesCmd() *cobra.Command {
	var tail int
	cmd := &cobra.Command{
		Use:   "series <ticker>",
		Short: "Print closes with EMA and MACD values per bar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := c.engine()
			if err != nil {
				return err
			}
			ticker := strings.ToUpper(strings.TrimSpace(args[0]))
			bars, series, err := eng.Series(cmd.Context(), ticker, c.cfg.Period)
			if err != nil {
				return err
			}
			opts := render.SeriesOptions{Tail: tail, Color: c.color, PrettyJSON: c.pretty}
			if c.format == "json" {
				return render.SeriesJSON(os.Stdout, ticker, bars, series, opts)
			}
			return render.SeriesTable(os.Stdout, ticker, bars, series, opts)
		},
	}
	cmd.Flags().IntVar(&tail, "tail", 20, "show only the last n bars (0 for all)")
	return cmd
}

func (c *cli) watchCmd() *cobra.Command {
	var (
		spec  string
		radar bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the board on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if spec == "" {
				spec = c.cfg.WatchCron
			}
			mode := pipeline.ModeBoard
			if radar {
				mode = pipeline.ModeRadar
			}
			opts, err := c.executeOptions(mode)
			if err != nil {
				return err
			}
			r, closer, err := c.runner()
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx := cmd.Context()
			job := watch.Serialized(func(ctx context.Context) error {
				fmt.Fprintln(os.Stdout)
				return r.Execute(ctx, opts)
			})
			w := watch.New(ctx, c.logger)
			if err := w.Add(string(mode), spec, job); err != nil {
				return err
			}
			w.RunNow(string(mode), job)
			w.Start()
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "", "six-field cron schedule (seconds first); defaults to watch.cron")
	cmd.Flags().BoolVar(&radar, "radar", false, "watch the earnings radar instead of the board")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <ticker>",
		Short: "Show recorded assessments for a ticker, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.DB == "" {
				return errors.New("history needs --db")
			}
			rec, err := recorder.NewSQLiteRecorder(expandHome(c.cfg.DB), c.logger)
			if err != nil {
				return err
			}
			defer rec.Close()
			records, err := rec.Recent(cmd.Context(), strings.ToUpper(args[0]), limit)
			if err != nil {
				return err
			}
			if c.format == "json" {
				return render.HistoryJSON(os.Stdout, records, c.pretty)
			}
			return render.HistoryTable(os.Stdout, records, c.color)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <portfolio.yaml>",
		Short: "Replace the positions stored in --db with a YAML portfolio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.DB == "" {
				return errors.New("import needs --db")
			}
			positions, err := portfolio.NewYAMLStore(expandHome(args[0])).ListPositions(cmd.Context())
			if err != nil {
				return err
			}
			db, err := portfolio.OpenSQLite(expandHome(c.cfg.DB))
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.ReplacePositions(cmd.Context(), positions); err != nil {
				return err
			}
			c.logger.Info("positions imported", zap.Int("count", len(positions)), zap.String("db", c.cfg.DB))
			return nil
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the current portfolio as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closer, err := c.store()
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}
			positions, err := store.ListPositions(cmd.Context())
			if err != nil {
				return err
			}
			out, err := portfolio.MarshalYAML(positions)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
}
