package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// Filter matches a position.
type Filter interface {
	Match(p types.Position) bool
}

// Parse builds a ticker filter from an expression:
// - Comma-separated exact tickers: "NVDA,AMD"
// - Glob: "NV*"
// - Regex: "/^(NV|AM)/"
// - Anything else: case-insensitive substring
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Always(true), nil
	}
	if strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") && len(expr) > 2 {
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, err
		}
		return Regex{re: re}, nil
	}
	if strings.Contains(expr, ",") {
		set := map[string]struct{}{}
		for _, p := range strings.Split(expr, ",") {
			p = strings.ToUpper(strings.TrimSpace(p))
			if p == "" {
				continue
			}
			set[p] = struct{}{}
		}
		return ExactSet{set: set}, nil
	}
	if strings.ContainsAny(expr, "*?") {
		return Glob{pattern: strings.ToUpper(expr)}, nil
	}
	return SubstrCI{needle: expr}, nil
}

// Apply returns the positions f matches, in order.
func Apply(f Filter, ps []types.Position) []types.Position {
	out := make([]types.Position, 0, len(ps))
	for _, p := range ps {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

type Always bool

func (a Always) Match(types.Position) bool { return bool(a) }

type ExactSet struct{ set map[string]struct{} }

func (e ExactSet) Match(p types.Position) bool {
	_, ok := e.set[strings.ToUpper(p.Ticker)]
	return ok
}

type Glob struct{ pattern string }

func (g Glob) Match(p types.Position) bool {
	ok, _ := filepath.Match(g.pattern, strings.ToUpper(p.Ticker))
	return ok
}

type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(p types.Position) bool { return r.re.MatchString(p.Ticker) }

// Category matches positions of one category.
type Category types.Category

func (c Category) Match(p types.Position) bool { return p.Category == types.Category(c) }

// And matches when every filter matches.
type And []Filter

func (a And) Match(p types.Position) bool {
	for _, f := range a {
		if !f.Match(p) {
			return false
		}
	}
	return true
}

func (g Glob) String() string     { return fmt.Sprintf("glob:%s", g.pattern) }
func (c Category) String() string { return fmt.Sprintf("category:%s", string(c)) }

// SubstrCI matches if the ticker contains needle, case-insensitively.
type SubstrCI struct{ needle string }

func (s SubstrCI) Match(p types.Position) bool {
	if s.needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Ticker), strings.ToLower(s.needle))
}

func (s SubstrCI) String() string { return fmt.Sprintf("substr-ci:%s", s.needle) }
