package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/formulate/internal/testutil"
	"github.com/leapstack-labs/formulate/pkg/backend"
	_ "github.com/leapstack-labs/formulate/pkg/backends/numexpr"
	_ "github.com/leapstack-labs/formulate/pkg/backends/root"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(Config{
		Logger:      testutil.NewTestLogger(t),
		DefaultFrom: "numexpr",
		DefaultTo:   "root",
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body)) //nolint:noctx // test request
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestTranslateEndpoint(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantResult string
		wantKind   string
	}{
		{
			name:       "numexpr to root",
			body:       `{"expression": "a>=b & c!=3", "from": "numexpr", "to": "root"}`,
			wantStatus: http.StatusOK,
			wantResult: "a >= b && c != 3",
		},
		{
			name:       "defaults",
			body:       `{"expression": "sqrt(x) * 3.141592653589793"}`,
			wantStatus: http.StatusOK,
			wantResult: "TMath::Sqrt(x) * TMath::Pi()",
		},
		{
			name:       "root to numexpr",
			body:       `{"expression": "TMath::Abs(-x)", "from": "root", "to": "numexpr"}`,
			wantStatus: http.StatusOK,
			wantResult: "abs(-x)",
		},
		{
			name:       "syntax error",
			body:       `{"expression": "a +", "from": "numexpr", "to": "root"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "syntax",
		},
		{
			name:       "unsupported in destination",
			body:       `{"expression": "where(a, b, c)", "from": "numexpr", "to": "root"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "unsupported",
		},
		{
			name:       "unknown backend",
			body:       `{"expression": "a", "from": "cobol", "to": "root"}`,
			wantStatus: http.StatusNotFound,
			wantKind:   "unknown_backend",
		},
		{
			name:       "malformed json",
			body:       `{"expression": `,
			wantStatus: http.StatusBadRequest,
			wantKind:   "bad_request",
		},
		{
			name:       "unknown field",
			body:       `{"expr": "a"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "bad_request",
		},
		{
			name:       "missing expression",
			body:       `{"from": "numexpr"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "bad_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, ts.URL+"/translate", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			if tt.wantStatus == http.StatusOK {
				var got TranslateResponse
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, tt.wantResult, got.Result)
				return
			}

			var got ErrorResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.NotEmpty(t, got.Error)
		})
	}
}

func TestListBackendsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/backends") //nolint:noctx // test request
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got BackendsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got.Backends, "numexpr")
	assert.Contains(t, got.Backends, "root")
}

func TestShowBackendEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("known", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/backends/numexpr") //nolint:noctx // test request
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "numexpr", got["name"])
		assert.NotEmpty(t, got["operators"])
	})

	t.Run("unknown", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/backends/nope") //nolint:noctx // test request
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRoutingErrors(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope") //nolint:noctx // test request
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/translate") //nolint:noctx // test request
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRequestID(t *testing.T) {
	s := New(Config{DefaultFrom: "numexpr", DefaultTo: "root"})
	h := s.Handler()

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestRequestLogging(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	s := New(Config{Logger: logger, DefaultFrom: "numexpr", DefaultTo: "root"})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/translate", strings.NewReader(`{"expression": "a"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logs.String(), "path=/translate")
	assert.Contains(t, logs.String(), "status=200")
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(Config{Logger: testutil.NewTestLogger(t)})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz") //nolint:noctx // test request
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeListenError(t *testing.T) {
	s := New(Config{Addr: "256.0.0.1:bad"})
	err := s.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

const watchedYAML = `name: watched_test
operators:
  - {id: ADD, token: "plus", precedence: additive}
`

func TestWatchReloadsBackends(t *testing.T) {
	dir := t.TempDir()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(Config{Logger: testutil.NewTestLogger(t), BackendsDir: dir, Watch: true})
	events := s.Reloads().Subscribe()
	defer s.Reloads().Unsubscribe(events)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()
	defer func() {
		cancel()
		<-done
	}()

	// The watcher starts asynchronously, so keep rewriting until a reload lands.
	path := filepath.Join(dir, "watched.yaml")
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(150 * time.Millisecond)
	defer tick.Stop()

	for {
		require.NoError(t, os.WriteFile(path, []byte(watchedYAML), 0o600))
		select {
		case ev := <-events:
			require.NoError(t, ev.Err)
			assert.Contains(t, ev.Backends, "watched_test")

			b, ok := backend.Get("watched_test")
			require.True(t, ok)
			_, ok = b.InfixOperator("plus")
			assert.True(t, ok)
			return
		case <-tick.C:
		case <-deadline:
			t.Fatal("no reload event")
		}
	}
}

func TestIsBackendFile(t *testing.T) {
	assert.True(t, isBackendFile("a/b.yaml"))
	assert.True(t, isBackendFile("b.YML"))
	assert.False(t, isBackendFile("b.json"))
	assert.False(t, isBackendFile("b.yaml.swp"))
}
