package questions

import (
	"context"
	"fmt"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/exceptions"
	"sync"

	"go.uber.org/zap"
)

type questionUsecase struct {
	QuestionRepository contracts.QuestionRepository
	SettingsService    contracts.SettingsService
	Log                *zap.Logger
}

var (
	questionUsecaseInstance contracts.QuestionUsecase
	onceQuestionUsecase     sync.Once
)

func NewQuestionUsecase(
	questionRepository contracts.QuestionRepository,
	settingsService contracts.SettingsService,
	logger *zap.Logger,
) contracts.QuestionUsecase {
	onceQuestionUsecase.Do(func() {
		questionUsecaseInstance = newQuestionUsecase(questionRepository, settingsService, logger)
	})
	return questionUsecaseInstance
}

func newQuestionUsecase(
	questionRepository contracts.QuestionRepository,
	settingsService contracts.SettingsService,
	logger *zap.Logger,
) *questionUsecase {
	return &questionUsecase{
		QuestionRepository: questionRepository,
		SettingsService:    settingsService,
		Log:                logger,
	}
}

func (uc *questionUsecase) ListQuestions(ctx context.Context, request *requests.FindAllQuestions) ([]models.Question, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("questionUsecase.ListQuestions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, request.Tool),
	)

	questions, err := uc.QuestionRepository.FindAll(ctx, request.Tool)
	if err != nil {
		uc.Log.Error("questionUsecase.ListQuestions error calling QuestionRepository.FindAll",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("questionUsecase.ListQuestions succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingQuestionsCountKey, len(questions)),
	)
	return questions, nil
}

func (uc *questionUsecase) CreateQuestion(ctx context.Context, request *requests.CreateQuestion) (*models.Question, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("questionUsecase.CreateQuestion called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionTagKey, request.Tag),
	)

	existing, err := uc.QuestionRepository.FindByTag(ctx, request.Tag)
	if err != nil {
		uc.Log.Error("questionUsecase.CreateQuestion error calling QuestionRepository.FindByTag",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		uc.Log.Warn("questionUsecase.CreateQuestion duplicate tag",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQuestionTagKey, request.Tag),
		)
		return nil, exceptions.ErrQuestionAlreadyExists(nil, request.Tag)
	}

	question, err := buildQuestion(request)
	if err != nil {
		uc.Log.Error("questionUsecase.CreateQuestion invalid options",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQuestionTagKey, request.Tag),
			zap.Error(err),
		)
		return nil, err
	}
	question.SetCreatedAtUpdatedAt()

	err = uc.QuestionRepository.CreateQuestion(ctx, question)
	if err != nil {
		uc.Log.Error("questionUsecase.CreateQuestion error calling QuestionRepository.CreateQuestion",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.invalidateSettings(ctx, "questionUsecase.CreateQuestion")

	uc.Log.Info("questionUsecase.CreateQuestion succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionTagKey, question.Tag),
	)
	return question, nil
}

func (uc *questionUsecase) UpdateQuestion(ctx context.Context, request *requests.UpdateQuestion) (*models.Question, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("questionUsecase.UpdateQuestion called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionTagKey, request.Tag),
	)

	question, err := uc.QuestionRepository.FindByTag(ctx, request.Tag)
	if err != nil {
		uc.Log.Error("questionUsecase.UpdateQuestion error calling QuestionRepository.FindByTag",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if question == nil {
		return nil, exceptions.ErrQuestionNotFound(nil, request.Tag)
	}

	applyPatch(question, request)

	// A changed input type must still fit the stored options.
	options, err := conformOptions(question.Tag, question.InputType, question.Options)
	if err != nil {
		uc.Log.Error("questionUsecase.UpdateQuestion invalid options",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQuestionTagKey, request.Tag),
			zap.Error(err),
		)
		return nil, err
	}
	question.Options = options
	question.SetUpdatedAt()

	err = uc.QuestionRepository.UpdateQuestion(ctx, question)
	if err != nil {
		uc.Log.Error("questionUsecase.UpdateQuestion error calling QuestionRepository.UpdateQuestion",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.invalidateSettings(ctx, "questionUsecase.UpdateQuestion")

	uc.Log.Info("questionUsecase.UpdateQuestion succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionTagKey, question.Tag),
	)
	return question, nil
}

func (uc *questionUsecase) UpsertQuestion(ctx context.Context, request *requests.CreateQuestion) (*models.Question, bool, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("questionUsecase.UpsertQuestion called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionTagKey, request.Tag),
	)

	existing, err := uc.QuestionRepository.FindByTag(ctx, request.Tag)
	if err != nil {
		uc.Log.Error("questionUsecase.UpsertQuestion error calling QuestionRepository.FindByTag",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, false, err
	}
	if existing == nil {
		question, err := uc.CreateQuestion(ctx, request)
		if err != nil {
			return nil, false, err
		}
		return question, true, nil
	}

	question, err := buildQuestion(request)
	if err != nil {
		return nil, false, err
	}
	question.ID = existing.ID
	question.CreatedAt = existing.CreatedAt
	question.SetUpdatedAt()

	err = uc.QuestionRepository.UpdateQuestion(ctx, question)
	if err != nil {
		uc.Log.Error("questionUsecase.UpsertQuestion error calling QuestionRepository.UpdateQuestion",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, false, err
	}

	uc.invalidateSettings(ctx, "questionUsecase.UpsertQuestion")

	uc.Log.Info("questionUsecase.UpsertQuestion succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionTagKey, question.Tag),
	)
	return question, false, nil
}

// invalidateSettings never fails the write that triggered it; the snapshot
// catches up on the next version check.
func (uc *questionUsecase) invalidateSettings(ctx context.Context, caller string) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if err := uc.SettingsService.Invalidate(ctx); err != nil {
		uc.Log.Warn(caller+" error calling SettingsService.Invalidate",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}

func buildQuestion(request *requests.CreateQuestion) (*models.Question, error) {
	sourceType := request.SourceType
	if sourceType == "" {
		sourceType = models.SourceTypeDynamic
	}

	question := &models.Question{
		Tag:             request.Tag,
		Text:            request.Text,
		InputType:       request.InputType,
		Category:        request.Category,
		SourceType:      sourceType,
		ApplicableTools: request.ApplicableTools,
		ScoringNote:     request.ScoringNote,
	}
	if question.ApplicableTools == nil {
		question.ApplicableTools = []string{}
	}

	options, err := conformOptions(request.Tag, request.InputType, toModelOptions(request.Options))
	if err != nil {
		return nil, err
	}
	question.Options = options
	return question, nil
}

func applyPatch(question *models.Question, request *requests.UpdateQuestion) {
	if request.Text != nil {
		question.Text = *request.Text
	}
	if request.InputType != nil {
		question.InputType = *request.InputType
	}
	if request.Category != nil {
		question.Category = *request.Category
	}
	if request.SourceType != nil {
		question.SourceType = *request.SourceType
	}
	if request.ApplicableTools != nil {
		question.ApplicableTools = *request.ApplicableTools
	}
	if request.Options != nil {
		question.Options = toModelOptions(*request.Options)
	}
	if request.ScoringNote != nil {
		question.ScoringNote = *request.ScoringNote
	}
}

func toModelOptions(options []requests.QuestionOption) []models.QuestionOption {
	result := make([]models.QuestionOption, 0, len(options))
	for _, option := range options {
		result = append(result, models.QuestionOption{
			Label: option.Label,
			Value: option.Value,
			Score: option.Score,
		})
	}
	return result
}

// conformOptions checks that options are allowed for the input type, that
// every value fits it and that no value repeats.
func conformOptions(tag string, inputType models.InputType, options []models.QuestionOption) ([]models.QuestionOption, error) {
	if len(options) == 0 {
		return []models.QuestionOption{}, nil
	}
	if !inputType.SupportsOptions() {
		return nil, exceptions.ErrInvalidOptions(fmt.Errorf("input type %s does not take options", inputType), tag)
	}

	seen := make(map[string]bool, len(options))
	conformed := make([]models.QuestionOption, 0, len(options))
	for _, option := range options {
		if option.Value.IsZero() {
			return nil, exceptions.ErrInvalidOptions(fmt.Errorf("option %q has no value", option.Label), tag)
		}
		value, err := option.Value.Conform(inputType)
		if err != nil {
			return nil, exceptions.ErrInvalidOptions(fmt.Errorf("option %q: %w", option.Label, err), tag)
		}
		if seen[value.Key()] {
			return nil, exceptions.ErrInvalidOptions(fmt.Errorf("duplicate option value %s", value), tag)
		}
		seen[value.Key()] = true
		option.Value = value
		conformed = append(conformed, option)
	}
	return conformed, nil
}
