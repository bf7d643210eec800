package locker

import (
	"context"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/pkg/constvars"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	loggingLockKey   = "lock_key"
	loggingLockValue = "lock_value"
)

var (
	lockerServiceInstance contracts.LockerService
	onceLockerService     sync.Once
)

type lockService struct {
	redisRepo contracts.RedisRepository
	Log       *zap.Logger
}

func NewLockService(repo contracts.RedisRepository, logger *zap.Logger) contracts.LockerService {
	onceLockerService.Do(func() {
		lockerServiceInstance = newLockService(repo, logger)
	})
	return lockerServiceInstance
}

func newLockService(repo contracts.RedisRepository, logger *zap.Logger) *lockService {
	return &lockService{
		redisRepo: repo,
		Log:       logger,
	}
}

func (s *lockService) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Debug("lockService.TryLock called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(loggingLockKey, key),
		zap.Duration("expiration", expiration),
	)

	lockValue := uuid.NewString()
	acquired, err := s.redisRepo.TrySetNX(ctx, key, lockValue, expiration)
	if err != nil {
		s.Log.Error("lockService.TryLock error calling redisRepo.TrySetNX",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return false, "", err
	}

	if !acquired {
		s.Log.Info("lockService.TryLock not acquired",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(loggingLockKey, key),
		)
		return false, "", nil
	}

	return true, lockValue, nil
}

// Unlock releases the lock only when it is still held with lockValue. A lock
// that expired or was taken over is left alone.
func (s *lockService) Unlock(ctx context.Context, key, lockValue string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	released, err := s.redisRepo.DeleteIfEqual(ctx, key, lockValue)
	if err != nil {
		s.Log.Error("lockService.Unlock error calling redisRepo.DeleteIfEqual",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(loggingLockKey, key),
			zap.Error(err),
		)
		return err
	}

	if !released {
		s.Log.Warn("lockService.Unlock lock no longer held",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(loggingLockKey, key),
			zap.String(loggingLockValue, lockValue),
		)
		return nil
	}

	s.Log.Debug("lockService.Unlock succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(loggingLockKey, key),
	)
	return nil
}
