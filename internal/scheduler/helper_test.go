package scheduler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rohmanhakim/site-parser/internal/config"
	"github.com/rohmanhakim/site-parser/internal/fetcher"
)

// routeSpec describes one canned response of a test site.
type routeSpec struct {
	status      int
	body        string
	contentType string
}

func htmlRoute(body string) routeSpec {
	return routeSpec{
		status:      http.StatusOK,
		body:        body,
		contentType: "text/html; charset=utf-8",
	}
}

// siteServer is an in-memory site that records which paths were
// requested.
type siteServer struct {
	server *httptest.Server

	mu        sync.Mutex
	requested []string
}

func newSiteServer(t *testing.T, routes map[string]routeSpec) *siteServer {
	t.Helper()
	site := &siteServer{}
	site.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		site.requested = append(site.requested, r.URL.Path)
		site.mu.Unlock()

		spec, ok := routes[r.URL.Path]
		if !ok {
			spec = routeSpec{status: http.StatusNotFound, body: "not found", contentType: "text/plain"}
		}
		w.Header().Set("Content-Type", spec.contentType)
		w.WriteHeader(spec.status)
		w.Write([]byte(spec.body))
	}))
	t.Cleanup(site.server.Close)
	return site
}

func (s *siteServer) baseURL() string {
	return s.server.URL
}

func (s *siteServer) requestedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, len(s.requested))
	copy(paths, s.requested)
	return paths
}

func (s *siteServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requested)
}

// testConfig returns crawl settings tight enough for fast tests.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return config.WithDefault().
		WithMaxPages(10).
		WithMaxDepth(3).
		WithMaxDuration(5 * time.Second).
		WithRequestTimeout(2 * time.Second).
		WithRetryTotal(0)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// panickingFetcher blows up on every fetch; the scheduler must contain it.
type panickingFetcher struct{}

func (f *panickingFetcher) Fetch(ctx context.Context, rawURL string) fetcher.Outcome {
	panic("fetch exploded: " + rawURL)
}

// newRedirectingSite serves a root that redirects to /home, which links
// onward with a relative href.
func newRedirectingSite(t *testing.T) *siteServer {
	t.Helper()
	site := &siteServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/home", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/home", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body>
			home@example.com
			<a href="next">relative</a>
		</body></html>`))
	})
	mux.HandleFunc("/next", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body>next@example.com</body></html>`))
	})
	site.server = httptest.NewServer(mux)
	t.Cleanup(site.server.Close)
	return site
}
