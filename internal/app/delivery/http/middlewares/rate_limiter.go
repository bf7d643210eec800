package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterPruneInterval = time.Minute
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(req *http.Request) string

// KeyByClientIP counts requests per remote address.
func KeyByClientIP(req *http.Request) string {
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return ip
}

// KeyBySession counts requests per assessment session so officers sharing an
// office address never drain each other's bucket. Requests without a session
// fall back to the client IP.
func KeyBySession(req *http.Request) string {
	sessionID := chi.URLParam(req, constvars.URLParamSessionID)
	if sessionID == "" {
		return "ip:" + KeyByClientIP(req)
	}
	return "session:" + sessionID
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a keyed token bucket. With a positive blockTime a key that
// runs dry stays rejected for blockTime; with zero it is only rejected until
// its next token arrives.
type RateLimiter struct {
	log       *zap.Logger
	keyFunc   KeyFunc
	limiters  map[string]*limiterEntry
	blocked   map[string]time.Time
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	blockTime time.Duration
	lastPrune time.Time
}

func NewRateLimiter(logger *zap.Logger, ratePerSecond, burst int, blockTime time.Duration, keyFunc KeyFunc) *RateLimiter {
	if burst < ratePerSecond {
		burst = ratePerSecond
	}
	if keyFunc == nil {
		keyFunc = KeyByClientIP
	}
	return &RateLimiter{
		log:       logger,
		keyFunc:   keyFunc,
		limiters:  make(map[string]*limiterEntry),
		blocked:   make(map[string]time.Time),
		limit:     rate.Limit(ratePerSecond),
		burst:     burst,
		blockTime: blockTime,
		lastPrune: time.Now(),
	}
}

func (r *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.limit <= 0 {
			next.ServeHTTP(w, req)
			return
		}

		key := r.keyFunc(req)
		now := time.Now()

		r.mu.Lock()
		r.pruneLocked(now)
		if blockedUntil, found := r.blocked[key]; found {
			if now.Before(blockedUntil) {
				r.mu.Unlock()
				r.reject(w, req, key, blockedUntil.Sub(now))
				return
			}
			delete(r.blocked, key)
		}

		entry, exists := r.limiters[key]
		if !exists {
			entry = &limiterEntry{limiter: rate.NewLimiter(r.limit, r.burst)}
			r.limiters[key] = entry
		}
		entry.lastSeen = now

		if !entry.limiter.AllowN(now, 1) {
			retryAfter := time.Duration(float64(time.Second) / float64(r.limit))
			if r.blockTime > 0 {
				r.blocked[key] = now.Add(r.blockTime)
				retryAfter = r.blockTime
			}
			r.mu.Unlock()
			r.reject(w, req, key, retryAfter)
			return
		}
		r.mu.Unlock()

		next.ServeHTTP(w, req)
	})
}

func (r *RateLimiter) pruneLocked(now time.Time) {
	if now.Sub(r.lastPrune) < limiterPruneInterval {
		return
	}
	r.lastPrune = now
	for key, entry := range r.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(r.limiters, key)
		}
	}
	for key, blockedUntil := range r.blocked {
		if now.After(blockedUntil) {
			delete(r.blocked, key)
		}
	}
}

func (r *RateLimiter) reject(w http.ResponseWriter, req *http.Request, key string, retryAfter time.Duration) {
	r.log.Warn("RateLimiter.Limit request rejected",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(req.Context())),
		zap.String(constvars.LoggingLimiterKey, key),
		zap.Duration(constvars.LoggingDurationKey, retryAfter),
	)
	seconds := int((retryAfter + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(seconds))
	utils.BuildErrorResponse(r.log, w, exceptions.ErrTooManyRequests(nil))
}
