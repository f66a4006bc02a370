package portfolio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// YAMLStore reads positions from a YAML file or a directory of them.
//
//	holdings:
//	  - {ticker: NVDA, cost: 450.00, note: core}
//	  - TSLA
//	watchlist:
//	  - AAPL
//	positions:
//	  - {ticker: PLTR, category: watchlist}
//
// A directory is walked recursively and every .yaml/.yml file is merged in path order.
type YAMLStore struct {
	Path string
}

func NewYAMLStore(path string) *YAMLStore { return &YAMLStore{Path: path} }

func (s *YAMLStore) ListPositions(_ context.Context) ([]types.Position, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, err
		}
		ps, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Path, err)
		}
		return Validate(ps)
	}

	var files []string
	err = filepath.WalkDir(s.Path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var all []types.Position
	for _, full := range files {
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, err
		}
		ps, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", full, err)
		}
		all = append(all, ps...)
	}
	return Validate(all)
}

// ReplacePositions rewrites the file in the holdings/watchlist layout.
func (s *YAMLStore) ReplacePositions(_ context.Context, positions []types.Position) error {
	if info, err := os.Stat(s.Path); err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory; replace needs a single file", s.Path)
	}
	v, err := Validate(positions)
	if err != nil {
		return err
	}
	data, err := MarshalYAML(v)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o644)
}

// ParseYAML parses one portfolio document. Validation is left to the caller.
func ParseYAML(data []byte) ([]types.Position, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	m, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid yaml: expected map with 'holdings', 'watchlist' or 'positions'")
	}

	var out []types.Position
	sections := []struct {
		key string
		cat types.Category
	}{
		{"holdings", types.CategoryHolding},
		{"watchlist", types.CategoryWatchlist},
		{"positions", ""},
	}
	found := false
	for _, sec := range sections {
		node, ok := m[sec.key]
		if !ok {
			continue
		}
		found = true
		if node == nil {
			continue
		}
		items, ok := node.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: expected a list", sec.key)
		}
		for i, it := range items {
			p, err := toPosition(it, sec.cat)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", sec.key, i, err)
			}
			out = append(out, p)
		}
	}
	if !found {
		return nil, fmt.Errorf("invalid yaml: missing 'holdings', 'watchlist' or 'positions'")
	}
	return out, nil
}

func toPosition(v any, cat types.Category) (types.Position, error) {
	switch n := v.(type) {
	case string:
		return types.Position{Ticker: n, Category: orWatch(cat)}, nil
	case map[string]any:
		p := types.Position{Category: cat}
		for _, key := range []string{"ticker", "sym", "symbol"} {
			if t, ok := n[key]; ok && t != nil {
				p.Ticker = fmt.Sprint(t)
				break
			}
		}
		if note, ok := n["note"]; ok && note != nil {
			p.Note = fmt.Sprint(note)
		}
		if c, ok := n["category"]; ok && c != nil {
			parsed, err := types.ParseCategory(fmt.Sprint(c))
			if err != nil {
				return p, err
			}
			p.Category = parsed
		}
		p.Category = orWatch(p.Category)
		cost, err := toCost(n["cost"])
		if err != nil {
			return p, err
		}
		p.CostBasis = cost
		return p, nil
	default:
		return types.Position{}, fmt.Errorf("unsupported entry %v", v)
	}
}

func orWatch(c types.Category) types.Category {
	if c == "" {
		return types.CategoryWatchlist
	}
	return c
}

func toCost(v any) (decimal.NullDecimal, error) {
	switch c := v.(type) {
	case nil:
		return types.NoCost, nil
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(c))), nil
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(c)), nil
	case string:
		if strings.TrimSpace(c) == "" {
			return types.NoCost, nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(c))
		if err != nil {
			return types.NoCost, fmt.Errorf("cost %q: %w", c, err)
		}
		return decimal.NewNullDecimal(d), nil
	default:
		return types.NoCost, fmt.Errorf("cost: unsupported value %v", v)
	}
}

type yamlDoc struct {
	Holdings  []yamlEntry `yaml:"holdings"`
	Watchlist []yamlEntry `yaml:"watchlist"`
}

type yamlEntry struct {
	Ticker string     `yaml:"ticker"`
	Cost   *yaml.Node `yaml:"cost,omitempty"`
	Note   string     `yaml:"note,omitempty"`
}

// MarshalYAML writes positions in the holdings/watchlist layout. Costs keep their exact decimal text.
func MarshalYAML(positions []types.Position) ([]byte, error) {
	doc := yamlDoc{Holdings: []yamlEntry{}, Watchlist: []yamlEntry{}}
	for _, p := range positions {
		e := yamlEntry{Ticker: p.Ticker, Note: p.Note}
		if p.CostBasis.Valid {
			e.Cost = &yaml.Node{Kind: yaml.ScalarNode, Value: p.CostBasis.Decimal.String()}
		}
		if p.Category == types.CategoryHolding {
			doc.Holdings = append(doc.Holdings, e)
		} else {
			doc.Watchlist = append(doc.Watchlist, e)
		}
	}
	return yaml.Marshal(doc)
}
