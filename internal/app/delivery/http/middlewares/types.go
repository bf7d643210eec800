package middlewares

import (
	"supervision-service/internal/app/config"
	"time"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log             *zap.Logger
	InternalConfig  *config.InternalConfig
	AutosaveLimiter *RateLimiter
}

func NewMiddlewares(logger *zap.Logger, internalConfig *config.InternalConfig) *Middlewares {
	return &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		AutosaveLimiter: NewRateLimiter(
			logger,
			internalConfig.App.AutosaveRatePerSecond,
			internalConfig.App.AutosaveBurst,
			time.Duration(internalConfig.App.AutosaveBlockSeconds)*time.Second,
			KeyBySession,
		),
	}
}
