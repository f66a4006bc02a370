package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/komsit37/sniper/pkg/sniper/config"
	"github.com/komsit37/sniper/pkg/sniper/logging"
)

// cli holds the resolved configuration shared by every subcommand.
type cli struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger

	configPath  string
	columns     []string
	sets        []string
	filterExpr  string
	category    string
	format      string
	color       bool
	pretty      bool
	maxColWidth int
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return (&cli{v: config.New()}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sniper",
		Short:         "Score portfolio holdings and watchlist tickers with trend indicators and fundamentals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (yaml, toml or json)")
	pf.String("portfolio", "", "portfolio YAML file or directory")
	pf.String("db", "", "SQLite database for positions and assessment history")
	pf.String("period", "1y", "lookback period: 3mo, 6mo, 1y, 2y, 3y, 5y")
	pf.String("fundamentals", "yahoo", "fundamentals source: yahoo, file, none")
	pf.String("fundamentals-file", "", "YAML file with fundamentals snapshots")
	pf.Bool("names", true, "look up company names")
	pf.Bool("record", false, "store every assessment in --db")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console, json")
	pf.StringSliceVarP(&c.columns, "columns", "c", nil, "columns to show (comma separated)")
	pf.StringSliceVarP(&c.sets, "sets", "s", nil, "column sets to show (comma separated)")
	pf.StringVarP(&c.filterExpr, "filter", "f", "", "ticker filter: exact list, glob, /regex/ or substring")
	pf.StringVar(&c.category, "category", "", "only holding or watchlist")
	pf.StringVarP(&c.format, "format", "o", "table", "output format: table, json, syms")
	pf.BoolVar(&c.color, "color", os.Getenv("NO_COLOR") == "", "colorize table output")
	pf.BoolVar(&c.pretty, "pretty", true, "indent JSON output")
	pf.IntVar(&c.maxColWidth, "max-col-width", 0, "wrap table cells wider than this (0 picks from terminal width)")

	for key, flag := range map[string]string{
		config.KeyPortfolio:        "portfolio",
		config.KeyDB:               "db",
		config.KeyPeriod:           "period",
		config.KeyFundamentals:     "fundamentals",
		config.KeyFundamentalsFile: "fundamentals-file",
		config.KeyNames:            "names",
		config.KeyRecord:           "record",
		config.KeyLogLevel:         "log-level",
		config.KeyLogFormat:        "log-format",
	} {
		_ = c.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		c.showCmd(),
		c.listCmd(),
		c.boardCmd(),
		c.radarCmd(),
		c.seriesCmd(),
		c.watchCmd(),
		c.historyCmd(),
		c.importCmd(),
		c.exportCmd(),
	)
	return root
}

func (c *cli) load() error {
	if err := config.ReadFile(c.v, c.configPath); err != nil {
		return err
	}
	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger
	if c.maxColWidth <= 0 {
		c.maxColWidth = defaultMaxColWidth(detectTerminalWidth())
	}
	return nil
}

// defaultMaxColWidth gives wide terminals wider cells, never below 20 or above 60.
func defaultMaxColWidth(termWidth int) int {
	if termWidth <= 0 {
		return 40
	}
	return min(max(termWidth/4, 20), 60)
}
