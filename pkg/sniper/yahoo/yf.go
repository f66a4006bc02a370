package yahoo

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	yfgo "github.com/komsit37/yf-go"
)

// YF returns the yf-go client bound to this client's transport, timeout and rate limit.
// yf-go manages the cookie and crumb session quoteSummary requires. Its own response
// cache is disabled; callers cache decoded results.
func (c *Client) YF() *yfgo.Client {
	c.yfOnce.Do(func() {
		next := c.httpClient.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		hc := &http.Client{
			Timeout:   c.httpClient.Timeout,
			Transport: &limitedTransport{next: next, limiter: c.limiter, logger: c.logger},
		}
		c.yf = yfgo.NewClient(yfgo.WithHTTPClient(hc), yfgo.WithCacheDisabled())
	})
	return c.yf
}

// limitedTransport waits on the shared limiter before every round trip, including
// the session and crumb requests yf-go issues on its own.
type limitedTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
	logger  *zap.Logger
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.logger.Debug("yahoo request",
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	return resp, nil
}
