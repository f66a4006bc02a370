package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/sniper/pkg/sniper/types"
)

// symsRenderer prints all tickers in a single comma-separated line.
type symsRenderer struct{}

func NewSymsRenderer() Renderer {
	return symsRenderer{}
}

func (symsRenderer) Render(w io.Writer, sheets []types.Sheet, _ RenderOptions) error {
	tickers := make([]string, 0)
	for _, s := range sheets {
		for _, e := range s.Entries {
			t := strings.TrimSpace(e.Position.Ticker)
			if t == "" {
				continue
			}
			tickers = append(tickers, t)
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(tickers, ","))
	return err
}
