package assessment_types

import (
	"context"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/app/models"
	"supervision-service/internal/app/services/core/scoring"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/dto/responses"
	"supervision-service/internal/pkg/exceptions"
	"sync"

	"go.uber.org/zap"
)

type assessmentTypeUsecase struct {
	AssessmentTypeRepository contracts.AssessmentTypeRepository
	SettingsService          contracts.SettingsService
	Log                      *zap.Logger
}

var (
	assessmentTypeUsecaseInstance contracts.AssessmentTypeUsecase
	onceAssessmentTypeUsecase     sync.Once
)

func NewAssessmentTypeUsecase(
	assessmentTypeRepository contracts.AssessmentTypeRepository,
	settingsService contracts.SettingsService,
	logger *zap.Logger,
) contracts.AssessmentTypeUsecase {
	onceAssessmentTypeUsecase.Do(func() {
		assessmentTypeUsecaseInstance = newAssessmentTypeUsecase(assessmentTypeRepository, settingsService, logger)
	})
	return assessmentTypeUsecaseInstance
}

func newAssessmentTypeUsecase(
	assessmentTypeRepository contracts.AssessmentTypeRepository,
	settingsService contracts.SettingsService,
	logger *zap.Logger,
) *assessmentTypeUsecase {
	return &assessmentTypeUsecase{
		AssessmentTypeRepository: assessmentTypeRepository,
		SettingsService:          settingsService,
		Log:                      logger,
	}
}

// ListTypes includes tool names that only appear on questions.
func (uc *assessmentTypeUsecase) ListTypes(ctx context.Context) ([]models.AssessmentType, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentTypeUsecase.ListTypes called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	settings, err := uc.SettingsService.Current(ctx)
	if err != nil {
		uc.Log.Error("assessmentTypeUsecase.ListTypes error calling SettingsService.Current",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("assessmentTypeUsecase.ListTypes succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingTypesCountKey, len(settings.Types)),
	)
	return settings.Types, nil
}

func (uc *assessmentTypeUsecase) CreateType(ctx context.Context, request *requests.CreateAssessmentType) (*models.AssessmentType, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentTypeUsecase.CreateType called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, request.Name),
	)

	matrix := toModelMatrix(request.ScoringMatrix)
	if err := scoring.ValidateMatrix(matrix); err != nil {
		return nil, exceptions.ErrInvalidScoringRange(err, request.Name)
	}

	existing, err := uc.AssessmentTypeRepository.FindByName(ctx, request.Name)
	if err != nil {
		uc.Log.Error("assessmentTypeUsecase.CreateType error calling AssessmentTypeRepository.FindByName",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		return nil, exceptions.ErrAssessmentTypeAlreadyExists(nil, request.Name)
	}

	assessmentType := &models.AssessmentType{
		Name:          request.Name,
		Description:   request.Description,
		ScoringMatrix: matrix,
		Registered:    true,
	}
	assessmentType.SetCreatedAtUpdatedAt()

	err = uc.AssessmentTypeRepository.CreateType(ctx, assessmentType)
	if err != nil {
		uc.Log.Error("assessmentTypeUsecase.CreateType error calling AssessmentTypeRepository.CreateType",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.logOverlaps(ctx, "assessmentTypeUsecase.CreateType", request.Name, scoring.FindOverlaps(matrix))
	uc.invalidateSettings(ctx, "assessmentTypeUsecase.CreateType")

	uc.Log.Info("assessmentTypeUsecase.CreateType succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, assessmentType.Name),
	)
	return assessmentType, nil
}

// UpdateScoringMatrix creates the type when it is not registered yet and says
// so in the response.
func (uc *assessmentTypeUsecase) UpdateScoringMatrix(ctx context.Context, request *requests.UpdateScoringMatrix) (*responses.UpdateScoringMatrix, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentTypeUsecase.UpdateScoringMatrix called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, request.Name),
	)

	matrix := toModelMatrix(request.ScoringMatrix)
	if err := scoring.ValidateMatrix(matrix); err != nil {
		return nil, exceptions.ErrInvalidScoringRange(err, request.Name)
	}

	assessmentType, created, err := uc.AssessmentTypeRepository.UpsertScoringMatrix(ctx, request.Name, matrix)
	if err != nil {
		uc.Log.Error("assessmentTypeUsecase.UpdateScoringMatrix error calling AssessmentTypeRepository.UpsertScoringMatrix",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if created {
		uc.Log.Warn("assessmentTypeUsecase.UpdateScoringMatrix registered a new assessment type",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAssessmentTypeKey, request.Name),
		)
	}

	warnings := scoring.FindOverlaps(matrix)
	uc.logOverlaps(ctx, "assessmentTypeUsecase.UpdateScoringMatrix", request.Name, warnings)
	uc.invalidateSettings(ctx, "assessmentTypeUsecase.UpdateScoringMatrix")

	uc.Log.Info("assessmentTypeUsecase.UpdateScoringMatrix succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, request.Name),
	)
	return &responses.UpdateScoringMatrix{
		AssessmentType: assessmentType,
		Created:        created,
		Warnings:       warnings,
	}, nil
}

// EvaluateScore previews a score for ad hoc answers without a session.
func (uc *assessmentTypeUsecase) EvaluateScore(ctx context.Context, request *requests.EvaluateScore) (*responses.ScoreResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentTypeUsecase.EvaluateScore called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, request.Name),
	)

	settings, err := uc.SettingsService.Current(ctx)
	if err != nil {
		uc.Log.Error("assessmentTypeUsecase.EvaluateScore error calling SettingsService.Current",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	assessmentType, ok := settings.FindType(request.Name)
	if !ok {
		return nil, exceptions.ErrAssessmentTypeNotFound(nil, request.Name)
	}

	questions := settings.QuestionsFor(request.Name)
	answers := make(map[string]models.AnswerValue, len(request.Answers))
	for _, question := range questions {
		value, ok := request.Answers[question.Tag]
		if !ok {
			continue
		}
		conformed, err := value.Conform(question.InputType)
		if err != nil {
			return nil, exceptions.ErrInvalidAnswerValue(err, question.Tag)
		}
		answers[question.Tag] = conformed
	}

	result := scoring.Evaluate(answers, questions, assessmentType.ScoringMatrix)

	uc.Log.Info("assessmentTypeUsecase.EvaluateScore succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingTotalScoreKey, result.TotalScore),
		zap.String(constvars.LoggingRiskLevelKey, result.RiskLevel),
	)
	return &responses.ScoreResult{
		TotalScore:     result.TotalScore,
		CategoryScores: result.CategoryScores,
		Details:        result.Details,
		RiskLevel:      result.RiskLevel,
		Levels:         scoring.Levels(assessmentType.ScoringMatrix),
	}, nil
}

func (uc *assessmentTypeUsecase) logOverlaps(ctx context.Context, caller, name string, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Warn(caller+" scoring matrix has overlapping ranges",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, name),
		zap.Strings(constvars.LoggingOverlapWarningsKey, warnings),
	)
}

func (uc *assessmentTypeUsecase) invalidateSettings(ctx context.Context, caller string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if err := uc.SettingsService.Invalidate(ctx); err != nil {
		uc.Log.Warn(caller+" error calling SettingsService.Invalidate",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}

func toModelMatrix(matrix []requests.ScoringRange) []models.ScoringRange {
	result := make([]models.ScoringRange, 0, len(matrix))
	for _, scoringRange := range matrix {
		result = append(result, models.ScoringRange{
			Label: scoringRange.Label,
			Min:   scoringRange.Min,
			Max:   scoringRange.Max,
		})
	}
	return result
}
