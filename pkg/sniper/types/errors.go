package types

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySeries means the source returned no price rows for the ticker and period.
	ErrEmptySeries = errors.New("empty price series")
	// ErrInsufficientHistory means fewer than two bars were available.
	ErrInsufficientHistory = errors.New("insufficient price history")
	// ErrNotApplicable means fundamentals do not exist for the instrument type.
	ErrNotApplicable = errors.New("fundamentals not applicable")
	// ErrSourceUnavailable covers network, API and malformed-data failures.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrInvalidTicker means the ticker is empty after trimming.
	ErrInvalidTicker = errors.New("invalid ticker")
)

// SourceError reports a failed call to an external data source.
// It matches ErrSourceUnavailable with errors.Is and unwraps to the cause.
type SourceError struct {
	Source string
	Ticker string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Ticker == "" {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Source, e.Ticker, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func (e *SourceError) Is(target error) bool { return target == ErrSourceUnavailable }

// Unavailable wraps err as a SourceError unless it already carries one of the typed conditions.
func Unavailable(source, ticker string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEmptySeries) || errors.Is(err, ErrInsufficientHistory) ||
		errors.Is(err, ErrNotApplicable) || errors.Is(err, ErrSourceUnavailable) {
		return err
	}
	return &SourceError{Source: source, Ticker: ticker, Err: err}
}

// Reason gives a short user-facing label for an error in the taxonomy.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptySeries):
		return "no data"
	case errors.Is(err, ErrInsufficientHistory):
		return "not enough history"
	case errors.Is(err, ErrNotApplicable):
		return "n/a"
	case errors.Is(err, ErrSourceUnavailable):
		return "source unavailable"
	case errors.Is(err, ErrInvalidTicker):
		return "invalid ticker"
	default:
		return "error"
	}
}
