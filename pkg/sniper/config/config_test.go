package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

func TestDefaults(t *testing.T) {
	c, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, types.Period1Y, c.Period)
	assert.Equal(t, 10*time.Minute, c.CacheTTL)
	assert.Equal(t, 256, c.CacheSize)
	assert.Equal(t, 15*time.Second, c.HTTPTimeout)
	assert.Equal(t, 5, c.HTTPRate)
	assert.Equal(t, SourceYahoo, c.Fundamentals)
	assert.True(t, c.Names)
	assert.Equal(t, "console", c.LogFormat)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SNIPER_PERIOD", "3mo")
	t.Setenv("SNIPER_CACHE_TTL", "30s")
	t.Setenv("SNIPER_FUNDAMENTALS_SOURCE", "NONE")

	c, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, types.Period3Mo, c.Period)
	assert.Equal(t, 30*time.Second, c.CacheTTL)
	assert.Equal(t, SourceNone, c.Fundamentals)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sniper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
portfolio: ~/portfolio.yaml
period: 6mo
cache:
  size: 32
fundamentals:
  source: file
  file: fundamentals.yaml
`), 0o644))

	v := New()
	require.NoError(t, ReadFile(v, path))
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "~/portfolio.yaml", c.Portfolio)
	assert.Equal(t, types.Period6Mo, c.Period)
	assert.Equal(t, 32, c.CacheSize)
	assert.Equal(t, SourceFile, c.Fundamentals)
	assert.Equal(t, "fundamentals.yaml", c.FundFile)

	assert.NoError(t, ReadFile(New(), ""))
	assert.Error(t, ReadFile(New(), filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestValidate(t *testing.T) {
	v := New()
	v.Set(KeyCacheSize, 0)
	v.Set(KeyFundamentals, "bloomberg")
	v.Set(KeyRecord, true)
	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.size")
	assert.Contains(t, err.Error(), "bloomberg")
	assert.Contains(t, err.Error(), "record needs db")

	v = New()
	v.Set(KeyFundamentals, SourceFile)
	_, err = Load(v)
	assert.ErrorContains(t, err, "fundamentals.file")

	v = New()
	v.Set(KeyPeriod, "10y")
	_, err = Load(v)
	assert.Error(t, err)
}
