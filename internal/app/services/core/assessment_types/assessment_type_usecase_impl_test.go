package assessment_types

import (
	"context"
	"errors"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Load(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSettingsService) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSettingsService) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSettingsService) Current(ctx context.Context) (*models.AssessmentSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssessmentSettings), args.Error(1)
}

func ransatSettings() *models.AssessmentSettings {
	questions := []models.Question{
		{
			Tag:             "has_job",
			InputType:       models.InputTypeBoolean,
			Category:        "Employment",
			ApplicableTools: []string{"RANSAT"},
			Options: []models.QuestionOption{
				{Label: "Yes", Value: models.BoolValue(true), Score: 0},
				{Label: "No", Value: models.BoolValue(false), Score: 2},
			},
		},
		{
			Tag:             "substance_use",
			InputType:       models.InputTypeScale03,
			Category:        "Substance",
			ApplicableTools: []string{"RANSAT", "FSAT"},
			Options: []models.QuestionOption{
				{Label: "None", Value: models.IntValue(0), Score: 0},
				{Label: "Severe", Value: models.IntValue(3), Score: 9},
			},
		},
	}
	types := []models.AssessmentType{
		{
			Name: "RANSAT",
			ScoringMatrix: []models.ScoringRange{
				{Label: "Low", Min: 0, Max: 5},
				{Label: "High", Min: 6, Max: 100},
			},
		},
	}
	return models.NewAssessmentSettings("1", questions, types)
}

func TestAssessmentTypeUsecaseListTypes(t *testing.T) {
	ctx := context.Background()

	settings := new(MockSettingsService)
	settings.On("Current", ctx).Return(ransatSettings(), nil)

	uc := newAssessmentTypeUsecase(new(MockAssessmentTypeRepository), settings, zap.NewNop())
	types, err := uc.ListTypes(ctx)

	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "FSAT", types[0].Name)
	assert.False(t, types[0].Registered, "FSAT is only referenced by a question")
	assert.Equal(t, "RANSAT", types[1].Name)
	assert.True(t, types[1].Registered)
}

func TestAssessmentTypeUsecaseCreateType(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockAssessmentTypeRepository)
		settings := new(MockSettingsService)
		repo.On("FindByName", ctx, "DVSAT").Return(nil, nil)
		repo.On("CreateType", ctx, mock.AnythingOfType("*models.AssessmentType")).Return(nil)
		settings.On("Invalidate", ctx).Return(nil)

		uc := newAssessmentTypeUsecase(repo, settings, zap.NewNop())
		assessmentType, err := uc.CreateType(ctx, &requests.CreateAssessmentType{
			Name:          "DVSAT",
			Description:   "Domestic violence",
			ScoringMatrix: []requests.ScoringRange{{Label: "Low", Min: 0, Max: 10}},
		})

		require.NoError(t, err)
		assert.True(t, assessmentType.Registered)
		settings.AssertExpectations(t)
	})

	t.Run("Duplicate Name", func(t *testing.T) {
		repo := new(MockAssessmentTypeRepository)
		repo.On("FindByName", ctx, "RANSAT").Return(&models.AssessmentType{Name: "RANSAT"}, nil)

		uc := newAssessmentTypeUsecase(repo, new(MockSettingsService), zap.NewNop())
		_, err := uc.CreateType(ctx, &requests.CreateAssessmentType{Name: "RANSAT"})

		require.Error(t, err)
		assert.Equal(t, constvars.StatusConflict, exceptions.StatusCode(err))
	})

	t.Run("Min Above Max", func(t *testing.T) {
		repo := new(MockAssessmentTypeRepository)

		uc := newAssessmentTypeUsecase(repo, new(MockSettingsService), zap.NewNop())
		_, err := uc.CreateType(ctx, &requests.CreateAssessmentType{
			Name:          "DVSAT",
			ScoringMatrix: []requests.ScoringRange{{Label: "Low", Min: 10, Max: 0}},
		})

		require.Error(t, err)
		assert.True(t, exceptions.IsValidation(err))
		repo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
	})
}

func TestAssessmentTypeUsecaseUpdateScoringMatrix(t *testing.T) {
	ctx := context.Background()

	t.Run("Upsert Creates Unregistered Type", func(t *testing.T) {
		repo := new(MockAssessmentTypeRepository)
		settings := new(MockSettingsService)
		matrix := []models.ScoringRange{{Label: "Low", Min: 0, Max: 9}, {Label: "High", Min: 10, Max: 99}}
		repo.On("UpsertScoringMatrix", ctx, "FSAT", matrix).Return(&models.AssessmentType{Name: "FSAT", ScoringMatrix: matrix, Registered: true}, true, nil)
		settings.On("Invalidate", ctx).Return(nil)

		uc := newAssessmentTypeUsecase(repo, settings, zap.NewNop())
		response, err := uc.UpdateScoringMatrix(ctx, &requests.UpdateScoringMatrix{
			Name:          "FSAT",
			ScoringMatrix: []requests.ScoringRange{{Label: "Low", Min: 0, Max: 9}, {Label: "High", Min: 10, Max: 99}},
		})

		require.NoError(t, err)
		assert.True(t, response.Created)
		assert.Empty(t, response.Warnings)
		repo.AssertExpectations(t)
	})

	t.Run("Overlaps Are Warnings", func(t *testing.T) {
		repo := new(MockAssessmentTypeRepository)
		settings := new(MockSettingsService)
		repo.On("UpsertScoringMatrix", ctx, "RANSAT", mock.Anything).Return(&models.AssessmentType{Name: "RANSAT"}, false, nil)
		settings.On("Invalidate", ctx).Return(errors.New("redis down"))

		uc := newAssessmentTypeUsecase(repo, settings, zap.NewNop())
		response, err := uc.UpdateScoringMatrix(ctx, &requests.UpdateScoringMatrix{
			Name:          "RANSAT",
			ScoringMatrix: []requests.ScoringRange{{Label: "Low", Min: 0, Max: 10}, {Label: "High", Min: 8, Max: 20}},
		})

		require.NoError(t, err)
		assert.False(t, response.Created)
		require.Len(t, response.Warnings, 1)
		assert.Contains(t, response.Warnings[0], "overlap")
	})

	t.Run("Empty Label", func(t *testing.T) {
		uc := newAssessmentTypeUsecase(new(MockAssessmentTypeRepository), new(MockSettingsService), zap.NewNop())
		_, err := uc.UpdateScoringMatrix(ctx, &requests.UpdateScoringMatrix{
			Name:          "RANSAT",
			ScoringMatrix: []requests.ScoringRange{{Label: "", Min: 0, Max: 10}},
		})

		assert.True(t, exceptions.IsValidation(err))
	})
}

func TestAssessmentTypeUsecaseEvaluateScore(t *testing.T) {
	ctx := context.Background()

	t.Run("Scores Against Matrix", func(t *testing.T) {
		settings := new(MockSettingsService)
		settings.On("Current", ctx).Return(ransatSettings(), nil)

		uc := newAssessmentTypeUsecase(new(MockAssessmentTypeRepository), settings, zap.NewNop())
		result, err := uc.EvaluateScore(ctx, &requests.EvaluateScore{
			Name: "RANSAT",
			Answers: map[string]models.AnswerValue{
				"has_job":       models.BoolValue(false),
				"substance_use": models.IntValue(3),
				"unknown_tag":   models.StringValue("ignored"),
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 11, result.TotalScore)
		assert.Equal(t, "High", result.RiskLevel)
		assert.Equal(t, map[string]int{"Employment": 2, "Substance": 9}, result.CategoryScores)
		assert.Equal(t, []string{"Low", "High"}, result.Levels)
	})

	t.Run("Implicit Type Uses Default Matrix", func(t *testing.T) {
		settings := new(MockSettingsService)
		settings.On("Current", ctx).Return(ransatSettings(), nil)

		uc := newAssessmentTypeUsecase(new(MockAssessmentTypeRepository), settings, zap.NewNop())
		result, err := uc.EvaluateScore(ctx, &requests.EvaluateScore{
			Name:    "FSAT",
			Answers: map[string]models.AnswerValue{"substance_use": models.IntValue(3)},
		})

		require.NoError(t, err)
		assert.Equal(t, 9, result.TotalScore)
		assert.Equal(t, constvars.DefaultRiskLevelMedium, result.RiskLevel)
	})

	t.Run("Unknown Type", func(t *testing.T) {
		settings := new(MockSettingsService)
		settings.On("Current", ctx).Return(ransatSettings(), nil)

		uc := newAssessmentTypeUsecase(new(MockAssessmentTypeRepository), settings, zap.NewNop())
		_, err := uc.EvaluateScore(ctx, &requests.EvaluateScore{Name: "NOPE"})

		assert.True(t, exceptions.IsNotFound(err))
	})

	t.Run("Answer Of Wrong Kind", func(t *testing.T) {
		settings := new(MockSettingsService)
		settings.On("Current", ctx).Return(ransatSettings(), nil)

		uc := newAssessmentTypeUsecase(new(MockAssessmentTypeRepository), settings, zap.NewNop())
		_, err := uc.EvaluateScore(ctx, &requests.EvaluateScore{
			Name:    "RANSAT",
			Answers: map[string]models.AnswerValue{"has_job": models.StringValue("false")},
		})

		assert.True(t, exceptions.IsValidation(err))
	})
}
