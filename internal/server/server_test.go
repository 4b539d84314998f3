package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/export/mocks"
	"github.com/jonathan/cv-builder/internal/logging"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
	"github.com/jonathan/cv-builder/internal/store"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/validation"
)

// sequenceIDs returns a generator yielding id-1, id-2, ...
func sequenceIDs() store.IDGenerator {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// testServer bundles a server with its printer mock
type testServer struct {
	*Server
	printer *mocks.MockPrinter
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLimits(t, &ratelimit.Config{Enabled: false})
}

func newTestServerWithLimits(t *testing.T, limits *ratelimit.Config) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)
	printer := mocks.NewMockPrinter(ctrl)

	s, err := New(Config{
		Printer:     printer,
		RateLimit:   limits,
		IDGenerator: sequenceIDs(),
		Logger:      logging.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)

	return &testServer{Server: s, printer: printer, handler: s.Handler()}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_RequiresPrinter(t *testing.T) {
	_, err := New(Config{Logger: logging.Nop()})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody[map[string]string](t, w))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/cv/skills", SkillRequest{Name: "Go", Level: types.SkillLevelExpert})

	w := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `cv_document_mutations_total{collection="skill",operation="add",outcome="applied"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodOptions, "/cv/skills/abc", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRateLimit_ExportTier(t *testing.T) {
	s := newTestServerWithLimits(t, ratelimit.NewConfig(true, 600, 1, nil))
	s.printer.EXPECT().PrintPDF(gomock.Any(), gomock.Any()).Return([]byte("%PDF"), nil).Times(1)

	w := s.do(t, http.MethodGet, "/cv/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = s.do(t, http.MethodGet, "/cv/export", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "rate_limit_exceeded", resp["error"])

	// Reads are on a separate tier
	w = s.do(t, http.MethodGet, "/cv", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: &ErrNotFound{Collection: "skill", ID: "x"}, want: http.StatusNotFound},
		{name: "duplicate id", err: &ErrDuplicateID{Collection: "experience", ID: "x"}, want: http.StatusConflict},
		{name: "invalid body", err: &ErrInvalidBody{Cause: io.EOF}, want: http.StatusBadRequest},
		{name: "form rules", err: &validation.Errors{Record: "skill"}, want: http.StatusBadRequest},
		{name: "schema", err: &schemas.ValidationError{}, want: http.StatusBadRequest},
		{name: "too large", err: &ErrInvalidBody{Cause: &http.MaxBytesError{Limit: 1}}, want: http.StatusRequestEntityTooLarge},
		{name: "printer", err: &export.PrintError{Message: "timeout"}, want: http.StatusBadGateway},
		{name: "wrapped not found", err: fmt.Errorf("ctx: %w", &ErrNotFound{}), want: http.StatusNotFound},
		{name: "unknown", err: io.ErrUnexpectedEOF, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrNotFound_Error(t *testing.T) {
	err := &ErrNotFound{Collection: "education", ID: "42"}
	assert.Equal(t, "education not found: 42", err.Error())
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t)
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
