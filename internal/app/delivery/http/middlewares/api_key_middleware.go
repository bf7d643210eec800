package middlewares

import (
	"context"
	"net/http"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// RequireAdminAPIKey guards catalog and scoring writes. The configured value is
// a bcrypt hash, the plain key never sits in the environment.
func (m *Middlewares) RequireAdminAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())
		apiKey := r.Header.Get(constvars.HeaderXAPIKey)

		if m.InternalConfig.Admin.APIKeyHash == "" {
			m.Log.Error("RequireAdminAPIKey admin api key hash is not configured",
				zap.String(constvars.LoggingRequestIDKey, requestID),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyNotConfigured(nil))
			return
		}

		if apiKey == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyMissing(nil))
			return
		}

		if !utils.CheckAPIKeyHash(apiKey, m.InternalConfig.Admin.APIKeyHash) {
			m.Log.Warn("RequireAdminAPIKey invalid api key",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingClientIPKey, r.RemoteAddr),
				zap.String(constvars.LoggingPathKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyInvalid(nil))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_ADMIN_KEY, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
