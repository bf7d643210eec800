package settings

import (
	"context"
	"strconv"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/exceptions"
	"sync"

	"go.uber.org/zap"
)

type settingsService struct {
	QuestionRepository       contracts.QuestionRepository
	AssessmentTypeRepository contracts.AssessmentTypeRepository
	RedisRepository          contracts.RedisRepository
	Log                      *zap.Logger

	mu       sync.RWMutex
	snapshot *models.AssessmentSettings
}

var (
	settingsServiceInstance contracts.SettingsService
	onceSettingsService     sync.Once
	settingsServiceError    error
)

func NewSettingsService(
	questionRepository contracts.QuestionRepository,
	assessmentTypeRepository contracts.AssessmentTypeRepository,
	redisRepository contracts.RedisRepository,
	logger *zap.Logger,
) (contracts.SettingsService, error) {
	onceSettingsService.Do(func() {
		instance := newSettingsService(questionRepository, assessmentTypeRepository, redisRepository, logger)

		err := instance.Load(context.Background())
		if err != nil {
			settingsServiceError = err
			return
		}
		settingsServiceInstance = instance
	})
	return settingsServiceInstance, settingsServiceError
}

func newSettingsService(
	questionRepository contracts.QuestionRepository,
	assessmentTypeRepository contracts.AssessmentTypeRepository,
	redisRepository contracts.RedisRepository,
	logger *zap.Logger,
) *settingsService {
	return &settingsService{
		QuestionRepository:       questionRepository,
		AssessmentTypeRepository: assessmentTypeRepository,
		RedisRepository:          redisRepository,
		Log:                      logger,
	}
}

func (s *settingsService) Load(ctx context.Context) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("settingsService.Load called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	version, err := s.RedisRepository.Get(ctx, constvars.RedisKeySettingsVersion)
	if err != nil {
		s.Log.Warn("settingsService.Load cannot read settings version, loading unversioned",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		version = ""
	}

	questions, err := s.QuestionRepository.FindAll(ctx, "")
	if err != nil {
		s.Log.Error("settingsService.Load error calling QuestionRepository.FindAll",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	assessmentTypes, err := s.AssessmentTypeRepository.FindAll(ctx)
	if err != nil {
		s.Log.Error("settingsService.Load error calling AssessmentTypeRepository.FindAll",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	snapshot := models.NewAssessmentSettings(version, questions, assessmentTypes)

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	s.Log.Info("settingsService.Load succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSettingsVersionKey, version),
		zap.Int(constvars.LoggingQuestionsCountKey, len(snapshot.Questions)),
		zap.Int(constvars.LoggingTypesCountKey, len(snapshot.Types)),
	)
	return nil
}

func (s *settingsService) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *settingsService) Invalidate(ctx context.Context) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	version, err := s.RedisRepository.Increment(ctx, constvars.RedisKeySettingsVersion)
	if err != nil {
		s.Log.Warn("settingsService.Invalidate cannot bump settings version, other instances keep their snapshot",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	} else {
		s.Log.Info("settingsService.Invalidate bumped settings version",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSettingsVersionKey, strconv.FormatInt(version, 10)),
		)
	}

	return s.Load(ctx)
}

// Current returns the snapshot, reloading it when another instance bumped the
// shared version. A Redis outage keeps serving the cached snapshot.
func (s *settingsService) Current(ctx context.Context) (*models.AssessmentSettings, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()

	if snapshot == nil {
		if err := s.Load(ctx); err != nil {
			return nil, exceptions.ErrSettingsNotLoaded(err)
		}
		return s.loaded()
	}

	version, err := s.RedisRepository.Get(ctx, constvars.RedisKeySettingsVersion)
	if err != nil {
		s.Log.Warn("settingsService.Current cannot read settings version, serving cached snapshot",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSettingsVersionKey, snapshot.Version),
			zap.Error(err),
		)
		return snapshot, nil
	}

	if version == snapshot.Version {
		return snapshot, nil
	}

	if err := s.Load(ctx); err != nil {
		s.Log.Warn("settingsService.Current reload failed, serving cached snapshot",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return snapshot, nil
	}
	return s.loaded()
}

func (s *settingsService) loaded() (*models.AssessmentSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, exceptions.ErrSettingsNotLoaded(nil)
	}
	return s.snapshot, nil
}
