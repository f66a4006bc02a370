// Package yahootest runs an httptest server that behaves like Yahoo's session-gated
// endpoints: quoteSummary and chart answer 401 "Invalid Crumb" unless the request
// carries the session cookie and the crumb issued by /v1/test/getcrumb.
package yahootest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/komsit37/sniper/pkg/sniper/yahoo"
)

const (
	Crumb      = "Xq7.crumb"
	cookieName = "A3"
	cookieVal  = "session"
)

const invalidCrumb = `{"finance":{"result":null,"error":{"code":"Unauthorized","description":"Invalid Crumb"}}}`

// Server routes requests by path prefix. Every host is rewritten onto it.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []string
	rejected int
}

// New starts a server with handlers keyed by path prefix and closes it on cleanup.
// It points yf-go's persisted session state at a temp dir.
func New(t *testing.T, routes map[string]http.HandlerFunc) *Server {
	t.Helper()
	t.Setenv("YF_HOME", t.TempDir())
	s := &Server{routes: routes}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Client returns a yahoo client whose requests all land on s. The rate limit is off
// unless opts set one.
func (s *Server) Client(opts ...yahoo.Option) *yahoo.Client {
	target, _ := url.Parse(s.URL)
	return yahoo.New(append([]yahoo.Option{
		yahoo.WithBaseURL(s.URL),
		yahoo.WithRateLimit(0),
		yahoo.WithHTTPClient(&http.Client{Transport: rewrite{target: target, next: http.DefaultTransport}}),
	}, opts...)...)
}

// Requests lists the paths served so far, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Rejected counts requests refused for a missing session.
func (s *Server) Rejected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejected
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.Path)
	s.mu.Unlock()

	switch {
	case r.URL.Path == "/" || r.URL.Path == "":
		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: cookieVal, Domain: "yahoo.com", Path: "/"})
		w.WriteHeader(http.StatusNotFound)
		return
	case r.URL.Path == "/v1/test/getcrumb":
		if !hasSession(r) {
			s.reject(w)
			return
		}
		w.Write([]byte(Crumb))
		return
	case gated(r.URL.Path) && (!hasSession(r) || r.URL.Query().Get("crumb") != Crumb):
		s.reject(w)
		return
	}

	for prefix, h := range s.routes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			h(w, r)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) reject(w http.ResponseWriter) {
	s.mu.Lock()
	s.rejected++
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(invalidCrumb))
}

func gated(path string) bool {
	return strings.HasPrefix(path, "/v10/finance/quoteSummary/") || strings.HasPrefix(path, "/v8/finance/chart/")
}

func hasSession(r *http.Request) bool {
	c, err := r.Cookie(cookieName)
	return err == nil && c.Value == cookieVal
}

type rewrite struct {
	target *url.URL
	next   http.RoundTripper
}

func (rt rewrite) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.URL.Scheme = rt.target.Scheme
	clone.URL.Host = rt.target.Host
	clone.Host = rt.target.Host
	return rt.next.RoundTrip(clone)
}
