package enrich

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// FileService serves fundamentals snapshots from a YAML file:
//
//	fundamentals:
//	  NVDA:
//	    shares:
//	      - {date: 2023-06-30, count: 2470000000}
//	    institutional_pct: 65.2
//	    short_pct: 1.1
//	    next_earnings: 2024-08-28
type FileService struct {
	snapshots map[string]types.FundamentalsSnapshot
}

type fileDoc struct {
	Fundamentals map[string]fileEntry `yaml:"fundamentals"`
}

type fileEntry struct {
	Shares []struct {
		Date  string  `yaml:"date"`
		Count float64 `yaml:"count"`
	} `yaml:"shares"`
	InstitutionalPct *float64 `yaml:"institutional_pct"`
	ShortPct         *float64 `yaml:"short_pct"`
	NextEarnings     string   `yaml:"next_earnings"`
}

// NewFileService loads and validates the file at path.
func NewFileService(path string) (*FileService, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fundamentals %s: %w", path, err)
	}
	return ParseFile(data)
}

// ParseFile parses the fundamentals YAML format.
func ParseFile(data []byte) (*FileService, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fundamentals: %w", err)
	}
	fs := &FileService{snapshots: make(map[string]types.FundamentalsSnapshot, len(doc.Fundamentals))}
	for ticker, e := range doc.Fundamentals {
		key := strings.ToUpper(strings.TrimSpace(ticker))
		snap := types.FundamentalsSnapshot{
			Ticker:                    key,
			InstitutionalOwnershipPct: e.InstitutionalPct,
			ShortInterestPct:          e.ShortPct,
		}
		for _, s := range e.Shares {
			d, err := time.Parse("2006-01-02", s.Date)
			if err != nil {
				return nil, fmt.Errorf("%s: shares date %q: %w", key, s.Date, err)
			}
			snap.SharesHistory = append(snap.SharesHistory, types.SharesPoint{Date: d, Shares: s.Count})
		}
		sort.Slice(snap.SharesHistory, func(i, j int) bool {
			return snap.SharesHistory[i].Date.Before(snap.SharesHistory[j].Date)
		})
		if e.NextEarnings != "" {
			d, err := time.Parse("2006-01-02", e.NextEarnings)
			if err != nil {
				return nil, fmt.Errorf("%s: next_earnings %q: %w", key, e.NextEarnings, err)
			}
			snap.NextEarningsDate = &d
		}
		fs.snapshots[key] = snap
	}
	return fs, nil
}

// Fundamentals returns the stored snapshot, or an empty one for unknown tickers.
func (f *FileService) Fundamentals(_ context.Context, ticker string) (types.FundamentalsSnapshot, error) {
	key := strings.ToUpper(strings.TrimSpace(ticker))
	if s, ok := f.snapshots[key]; ok {
		return s, nil
	}
	return types.FundamentalsSnapshot{Ticker: key}, nil
}
