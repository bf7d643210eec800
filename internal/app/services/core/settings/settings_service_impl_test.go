package settings

import (
	"context"
	"errors"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) FindAll(ctx context.Context, tool string) ([]models.Question, error) {
	args := m.Called(ctx, tool)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByTag(ctx context.Context, tag string) (*models.Question, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) UpdateQuestion(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockAssessmentTypeRepository struct {
	mock.Mock
}

func (m *MockAssessmentTypeRepository) FindAll(ctx context.Context) ([]models.AssessmentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssessmentType), args.Error(1)
}

func (m *MockAssessmentTypeRepository) FindByName(ctx context.Context, name string) (*models.AssessmentType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentType), args.Error(1)
}

func (m *MockAssessmentTypeRepository) CreateType(ctx context.Context, assessmentType *models.AssessmentType) error {
	args := m.Called(ctx, assessmentType)
	return args.Error(0)
}

func (m *MockAssessmentTypeRepository) UpsertScoringMatrix(ctx context.Context, name string, matrix []models.ScoringRange) (*models.AssessmentType, bool, error) {
	args := m.Called(ctx, name, matrix)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.AssessmentType), args.Bool(1), args.Error(2)
}

func (m *MockAssessmentTypeRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockRedisRepository struct {
	mock.Mock
}

func (m *MockRedisRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	args := m.Called(ctx, key, value, exp)
	return args.Error(0)
}

func (m *MockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) Increment(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedisRepository) DeleteIfEqual(ctx context.Context, key string, value interface{}) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func catalog() []models.Question {
	return []models.Question{
		{Tag: "living_situation", InputType: models.InputTypeSelect, Category: "Living", ApplicableTools: []string{"RANSAT"}},
		{Tag: "age_at_start", InputType: models.InputTypeInteger, Category: "Static", SourceType: models.SourceTypeStatic, ApplicableTools: []string{"RANSAT", "FSAT"}},
	}
}

func registeredTypes() []models.AssessmentType {
	return []models.AssessmentType{{Name: "RANSAT", Description: "Risk and needs"}}
}

func TestSettingsServiceLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Builds Snapshot", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		types := new(MockAssessmentTypeRepository)
		redisRepo := new(MockRedisRepository)
		redisRepo.On("Get", ctx, constvars.RedisKeySettingsVersion).Return("4", nil)
		questions.On("FindAll", ctx, "").Return(catalog(), nil)
		types.On("FindAll", ctx).Return(registeredTypes(), nil)

		service := newSettingsService(questions, types, redisRepo, zap.NewNop())
		require.NoError(t, service.Load(ctx))

		snapshot, err := service.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "4", snapshot.Version)
		assert.Len(t, snapshot.Questions, 2)
		require.Len(t, snapshot.Types, 2, "FSAT is referenced by a question only")
		assert.Equal(t, "FSAT", snapshot.Types[0].Name)
		assert.False(t, snapshot.Types[0].Registered)
		assert.True(t, snapshot.Types[1].Registered)
	})

	t.Run("Repository Error", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		types := new(MockAssessmentTypeRepository)
		redisRepo := new(MockRedisRepository)
		redisRepo.On("Get", ctx, constvars.RedisKeySettingsVersion).Return("", nil)
		questions.On("FindAll", ctx, "").Return(nil, errors.New("mongo down"))

		service := newSettingsService(questions, types, redisRepo, zap.NewNop())
		err := service.Load(ctx)

		assert.Error(t, err)
		types.AssertNotCalled(t, "FindAll", ctx)
	})

	t.Run("Redis Error Still Loads", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		types := new(MockAssessmentTypeRepository)
		redisRepo := new(MockRedisRepository)
		redisRepo.On("Get", ctx, constvars.RedisKeySettingsVersion).Return("", errors.New("redis down"))
		questions.On("FindAll", ctx, "").Return(catalog(), nil)
		types.On("FindAll", ctx).Return(registeredTypes(), nil)

		service := newSettingsService(questions, types, redisRepo, zap.NewNop())

		assert.NoError(t, service.Load(ctx))
		assert.Equal(t, "", service.snapshot.Version)
	})
}

func TestSettingsServiceCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("Unchanged Version Serves Cache", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		types := new(MockAssessmentTypeRepository)
		redisRepo := new(MockRedisRepository)
		redisRepo.On("Get", ctx, constvars.RedisKeySettingsVersion).Return("1", nil)
		questions.On("FindAll", ctx, "").Return(catalog(), nil).Once()
		types.On("FindAll", ctx).Return(registeredTypes(), nil).Once()

		service := newSettingsService(questions, types, redisRepo, zap.NewNop())
		require.NoError(t, service.Load(ctx))

		first, err := service.Current(ctx)
		require.NoError(t, err)
		second, err := service.Current(ctx)
		require.NoError(t, err)

		assert.Same(t, first, second, "snapshot should not be rebuilt")
		questions.AssertNumberOfCalls(t, "FindAll", 1)
	})

	t.Run("Version Bump Reloads", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		types := new(MockAssessmentTypeRepository)
		redisRepo := new(MockRedisRepository)
		redisRepo.On("Get", ctx, constvars.RedisKeySettingsVersion).Return("1", nil).Once()
		redisRepo.On("Get", ctx, constvars.RedisKeySettingsVersion).Return("2", nil)
		questions.On("FindAll", ctx, "").Return(catalog(), nil)
		types.On("FindAll", ctx).Return(registeredTypes(), nil)

		service := newSettingsService(questions, types, redisRepo, zap.NewNop())
		require.NoError(t, service.Load(ctx))

		snapshot, err := service.Current(ctx)

		require.NoError(t, err)
		assert.Equal(t, "2", snapshot.Version)
		questions.AssertNumberOfCalls(t, "FindAll", 2)
	})

	t.Run("Redis Outage Serves Cache", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		types := new(MockAssessmentTypeRepository)
		redisRepo := new(MockRedisRepository)
		redisRepo.On("Get", ctx, constvars.RedisKeySettingsVersion).Return("7", nil).Once()
		redisRepo.On("Get", ctx, constvars.RedisKeySettingsVersion).Return("", errors.New("redis down"))
		questions.On("FindAll", ctx, "").Return(catalog(), nil).Once()
		types.On("FindAll", ctx).Return(registeredTypes(), nil).Once()

		service := newSettingsService(questions, types, redisRepo, zap.NewNop())
		require.NoError(t, service.Load(ctx))

		snapshot, err := service.Current(ctx)

		require.NoError(t, err)
		assert.Equal(t, "7", snapshot.Version)
	})

	t.Run("Never Loaded And Repository Down", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		types := new(MockAssessmentTypeRepository)
		redisRepo := new(MockRedisRepository)
		redisRepo.On("Get", ctx, constvars.RedisKeySettingsVersion).Return("", nil)
		questions.On("FindAll", ctx, "").Return(nil, errors.New("mongo down"))

		service := newSettingsService(questions, types, redisRepo, zap.NewNop())
		snapshot, err := service.Current(ctx)

		assert.Nil(t, snapshot)
		require.Error(t, err)
		assert.Equal(t, constvars.StatusServiceUnavailable, exceptions.StatusCode(err))
	})
}

func TestSettingsServiceInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("Bumps Version And Reloads", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		types := new(MockAssessmentTypeRepository)
		redisRepo := new(MockRedisRepository)
		redisRepo.On("Increment", ctx, constvars.RedisKeySettingsVersion).Return(int64(3), nil)
		redisRepo.On("Get", ctx, constvars.RedisKeySettingsVersion).Return("3", nil)
		questions.On("FindAll", ctx, "").Return(catalog(), nil)
		types.On("FindAll", ctx).Return(registeredTypes(), nil)

		service := newSettingsService(questions, types, redisRepo, zap.NewNop())

		require.NoError(t, service.Invalidate(ctx))
		assert.Equal(t, "3", service.snapshot.Version)
		redisRepo.AssertExpectations(t)
	})

	t.Run("Increment Failure Still Reloads Locally", func(t *testing.T) {
		questions := new(MockQuestionRepository)
		types := new(MockAssessmentTypeRepository)
		redisRepo := new(MockRedisRepository)
		redisRepo.On("Increment", ctx, constvars.RedisKeySettingsVersion).Return(int64(0), errors.New("redis down"))
		redisRepo.On("Get", ctx, constvars.RedisKeySettingsVersion).Return("", errors.New("redis down"))
		questions.On("FindAll", ctx, "").Return(catalog(), nil)
		types.On("FindAll", ctx).Return(registeredTypes(), nil)

		service := newSettingsService(questions, types, redisRepo, zap.NewNop())

		assert.NoError(t, service.Invalidate(ctx))
		questions.AssertNumberOfCalls(t, "FindAll", 1)
	})
}
