// Package config loads settings from defaults, an optional file, SNIPER_* environment
// variables and bound command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// Keys.
const (
	KeyPortfolio        = "portfolio"
	KeyDB               = "db"
	KeyPeriod           = "period"
	KeyCacheTTL         = "cache.ttl"
	KeyCacheSize        = "cache.size"
	KeyHTTPTimeout      = "http.timeout"
	KeyHTTPRate         = "http.rate"
	KeyFundamentals     = "fundamentals.source"
	KeyFundamentalsFile = "fundamentals.file"
	KeyNames            = "names"
	KeyLogLevel         = "log.level"
	KeyLogFormat        = "log.format"
	KeyWatchCron        = "watch.cron"
	KeyRecord           = "record"
)

// Fundamentals sources.
const (
	SourceYahoo = "yahoo"
	SourceFile  = "file"
	SourceNone  = "none"
)

type Config struct {
	Portfolio    string
	DB           string
	Period       types.Period
	CacheTTL     time.Duration
	CacheSize    int
	HTTPTimeout  time.Duration
	HTTPRate     int
	Fundamentals string
	FundFile     string
	Names        bool
	LogLevel     string
	LogFormat    string
	WatchCron    string
	Record       bool
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPortfolio, "")
	v.SetDefault(KeyDB, "")
	v.SetDefault(KeyPeriod, string(types.DefaultPeriod))
	v.SetDefault(KeyCacheTTL, 10*time.Minute)
	v.SetDefault(KeyCacheSize, 256)
	v.SetDefault(KeyHTTPTimeout, 15*time.Second)
	v.SetDefault(KeyHTTPRate, 5)
	v.SetDefault(KeyFundamentals, SourceYahoo)
	v.SetDefault(KeyFundamentalsFile, "")
	v.SetDefault(KeyNames, true)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyWatchCron, "0 */15 * * * *")
	v.SetDefault(KeyRecord, false)

	v.SetEnvPrefix("SNIPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a YAML/TOML/JSON config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load reads the settings out of v and validates them.
func Load(v *viper.Viper) (*Config, error) {
	period, err := types.ParsePeriod(v.GetString(KeyPeriod))
	if err != nil {
		return nil, err
	}
	c := &Config{
		Portfolio:    v.GetString(KeyPortfolio),
		DB:           v.GetString(KeyDB),
		Period:       period,
		CacheTTL:     v.GetDuration(KeyCacheTTL),
		CacheSize:    v.GetInt(KeyCacheSize),
		HTTPTimeout:  v.GetDuration(KeyHTTPTimeout),
		HTTPRate:     v.GetInt(KeyHTTPRate),
		Fundamentals: strings.ToLower(v.GetString(KeyFundamentals)),
		FundFile:     v.GetString(KeyFundamentalsFile),
		Names:        v.GetBool(KeyNames),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		WatchCron:    v.GetString(KeyWatchCron),
		Record:       v.GetBool(KeyRecord),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	var errs []error
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyCacheSize, c.CacheSize))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyCacheTTL))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyHTTPTimeout))
	}
	switch c.Fundamentals {
	case SourceYahoo, SourceNone:
	case SourceFile:
		if c.FundFile == "" {
			errs = append(errs, fmt.Errorf("%s=file needs %s", KeyFundamentals, KeyFundamentalsFile))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown %s %q (yahoo, file, none)", KeyFundamentals, c.Fundamentals))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown %s %q (console, json)", KeyLogFormat, c.LogFormat))
	}
	if c.Record && c.DB == "" {
		errs = append(errs, fmt.Errorf("%s needs %s", KeyRecord, KeyDB))
	}
	return errors.Join(errs...)
}
