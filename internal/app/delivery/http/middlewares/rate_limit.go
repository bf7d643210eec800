package middlewares

import (
	"net/http"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"
	"time"

	"github.com/go-chi/httprate"
)

// GlobalRateLimit limits every route per client IP over a one second window.
func (m *Middlewares) GlobalRateLimit() func(next http.Handler) http.Handler {
	return httprate.Limit(
		m.InternalConfig.App.MaxRequests,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTooManyRequests(nil))
		}),
	)
}
