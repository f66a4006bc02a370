package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/NVDA", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"price":{"raw":12.5,"fmt":"12.50"}}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithRateLimit(0))
	var out struct {
		Price Value `json:"price"`
	}
	err := c.Get(context.Background(), "/v8/finance/chart/NVDA", url.Values{"interval": {"1d"}}, &out)
	require.NoError(t, err)
	v, ok := out.Price.Float()
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)
}

func TestGetNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithRateLimit(0))
	var out map[string]any
	err := c.Get(context.Background(), "/x", nil, &out)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "/x", apiErr.Endpoint)
}

func TestGetCancelledContext(t *testing.T) {
	c := New(WithBaseURL("http://127.0.0.1:1"), WithRateLimit(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out map[string]any
	assert.Error(t, c.Get(ctx, "/x", nil, &out))
}

func TestValueFloat(t *testing.T) {
	_, ok := Value{}.Float()
	assert.False(t, ok)
}
