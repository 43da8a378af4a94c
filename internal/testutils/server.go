// TiCS: disabled // Test helpers.

package testutils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// GistRequest is a request received by a GistServer.
type GistRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// GistServerConfig sets how a GistServer answers.
type GistServerConfig struct {
	// Status is the status code returned. Defaults to 200 OK.
	Status int
	// Body is the response body.
	Body string
	// Delay holds every answer back, for timeout tests.
	Delay time.Duration
}

// GistServer is a fake GitHub API recording the requests it receives.
type GistServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []GistRequest
}

// NewGistServer starts a fake GitHub API answering every request according to conf.
// The server is closed when the test ends.
func NewGistServer(t *testing.T, conf GistServerConfig) *GistServer {
	t.Helper()

	if conf.Status == 0 {
		conf.Status = http.StatusOK
	}

	s := &GistServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err, "Fake server: could not read request body")

		s.mu.Lock()
		s.requests = append(s.requests, GistRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		if conf.Delay > 0 {
			select {
			case <-time.After(conf.Delay):
			case <-r.Context().Done():
				return
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(conf.Status)
		_, _ = io.WriteString(w, conf.Body)
	}))
	t.Cleanup(s.Close)

	return s
}

// Requests returns the requests received so far.
func (s *GistServer) Requests() []GistRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]GistRequest(nil), s.requests...)
}

// ClosedServerURL returns the URL of a server which is not listening anymore.
func ClosedServerURL(t *testing.T) string {
	t.Helper()

	ts := httptest.NewServer(http.NotFoundHandler())
	u := ts.URL
	ts.Close()
	return u
}
