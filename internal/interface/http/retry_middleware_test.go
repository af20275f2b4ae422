package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linwei/smartliving/internal/infra/config"
)

func retryTestConfig() config.RetryConfig {
	return config.RetryConfig{
		Enabled:     true,
		MaxAttempts: 3,
		BaseBackoff: 0,
		Exclude:     []string{"/api/v1/assistant/chat"},
	}
}

func TestWithRetryReplaysPostBody(t *testing.T) {
	var attempts int
	var bodies []string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		bodies = append(bodies, string(data))
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	handler := withRetry(inner, retryTestConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", strings.NewReader(`{"content":"hi"}`))
	handler.ServeHTTP(rec, req)

	require.Equal(t, 2, attempts)
	require.Equal(t, []string{`{"content":"hi"}`, `{"content":"hi"}`}, bodies)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, `{"ok":true}`, rec.Body.String())
}

func TestWithRetryReplaysDelete(t *testing.T) {
	var attempts int
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	handler := withRetry(inner, retryTestConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/garden/plants/up-1", nil)
	handler.ServeHTTP(rec, req)

	require.Equal(t, 2, attempts)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWithRetrySkipsExcludedAndNonIdempotent(t *testing.T) {
	var attempts int
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	})

	handler := withRetry(inner, retryTestConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/chat", strings.NewReader(`{}`))
	handler.ServeHTTP(rec, req)
	require.Equal(t, 1, attempts)

	attempts = 0
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/forum/posts", nil)
	handler.ServeHTTP(rec, req)
	require.Equal(t, 1, attempts)
}

func TestWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	var attempts int
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	handler := withRetry(inner, retryTestConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", strings.NewReader(`{}`))
	handler.ServeHTTP(rec, req)

	require.Equal(t, 3, attempts)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
