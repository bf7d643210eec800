package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"supervision-service/internal/app/config"
	"supervision-service/internal/pkg/constvars"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMiddlewares(app config.App) *Middlewares {
	return NewMiddlewares(zap.NewNop(), &config.InternalConfig{App: app})
}

func TestRequestIDMiddleware(t *testing.T) {
	m := newTestMiddlewares(config.App{})
	var seen string
	handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	}))

	t.Run("Keeps client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-id")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, "client-id", seen)
		assert.Equal(t, "client-id", rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("Generates id", func(t *testing.T) {
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, strings.HasPrefix(seen, constvars.REQUEST_ID_PREFIX))
		assert.Equal(t, seen, rr.Header().Get(constvars.HeaderXRequestID))
	})
}

func TestErrorHandler(t *testing.T) {
	m := newTestMiddlewares(config.App{})
	handler := m.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
}

func TestRequestTimeout(t *testing.T) {
	m := newTestMiddlewares(config.App{RequestTimeoutInSeconds: 2})
	var deadline time.Time
	var ok bool
	handler := m.RequestTimeout(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)
}

func TestBodyLimit(t *testing.T) {
	m := newTestMiddlewares(config.App{RequestBodyLimitInMegabyte: 1})
	var readErr error
	handler := m.BodyLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 2<<20)
		for readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 2<<20)))
	handler.ServeHTTP(httptest.NewRecorder(), req.WithContext(context.Background()))

	var maxBytesErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxBytesErr)
}

func TestRateLimiter(t *testing.T) {
	t.Run("Block Holds After Refill", func(t *testing.T) {
		limiter := NewRateLimiter(zap.NewNop(), 1, 2, time.Minute, KeyByClientIP)
		handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		call := func(remoteAddr string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPut, "/answers", nil)
			req.RemoteAddr = remoteAddr
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			return rr
		}

		assert.Equal(t, http.StatusOK, call("10.0.0.1:1000").Code)
		assert.Equal(t, http.StatusOK, call("10.0.0.1:1001").Code)

		blocked := call("10.0.0.1:1002")
		assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
		assert.Equal(t, "60", blocked.Header().Get(constvars.HeaderRetryAfter))

		assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1003").Code)
		assert.Equal(t, http.StatusOK, call("10.0.0.2:1000").Code)
	})

	t.Run("Sessions Behind One Address Have Separate Buckets", func(t *testing.T) {
		limiter := NewRateLimiter(zap.NewNop(), 1, 2, 0, KeyBySession)
		router := chi.NewRouter()
		router.With(limiter.Limit).Put("/sessions/{session_id}/answers", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		call := func(sessionID string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPut, "/sessions/"+sessionID+"/answers", nil)
			req.RemoteAddr = "10.0.0.1:1000"
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			return rr
		}

		assert.Equal(t, http.StatusOK, call("session-a").Code)
		assert.Equal(t, http.StatusOK, call("session-a").Code)

		rejected := call("session-a")
		assert.Equal(t, http.StatusTooManyRequests, rejected.Code)
		assert.Equal(t, "1", rejected.Header().Get(constvars.HeaderRetryAfter))

		assert.Equal(t, http.StatusOK, call("session-b").Code)
	})
}

func TestKeyBySessionFallsBackToClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/answers", nil)
	req.RemoteAddr = "10.0.0.9:4321"

	assert.Equal(t, "ip:10.0.0.9", KeyBySession(req))
}
