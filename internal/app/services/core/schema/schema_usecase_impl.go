package schema

import (
	"context"
	"sort"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/dto/responses"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

type schemaUsecase struct {
	SettingsService             contracts.SettingsService
	SubjectDataProvider         contracts.SubjectDataProvider
	AssessmentSessionRepository contracts.AssessmentSessionRepository
	LookbackDays                int
	Log                         *zap.Logger
	now                         func() time.Time
}

var (
	schemaUsecaseInstance contracts.SchemaUsecase
	onceSchemaUsecase     sync.Once
)

func NewSchemaUsecase(
	settingsService contracts.SettingsService,
	subjectDataProvider contracts.SubjectDataProvider,
	assessmentSessionRepository contracts.AssessmentSessionRepository,
	lookbackDays int,
	logger *zap.Logger,
) contracts.SchemaUsecase {
	onceSchemaUsecase.Do(func() {
		schemaUsecaseInstance = newSchemaUsecase(settingsService, subjectDataProvider, assessmentSessionRepository, lookbackDays, logger)
	})
	return schemaUsecaseInstance
}

func newSchemaUsecase(
	settingsService contracts.SettingsService,
	subjectDataProvider contracts.SubjectDataProvider,
	assessmentSessionRepository contracts.AssessmentSessionRepository,
	lookbackDays int,
	logger *zap.Logger,
) *schemaUsecase {
	if lookbackDays <= 0 {
		lookbackDays = constvars.DefaultLookbackDays
	}
	return &schemaUsecase{
		SettingsService:             settingsService,
		SubjectDataProvider:         subjectDataProvider,
		AssessmentSessionRepository: assessmentSessionRepository,
		LookbackDays:                lookbackDays,
		Log:                         logger,
		now:                         time.Now,
	}
}

func (uc *schemaUsecase) ResolveSchema(ctx context.Context, request *requests.ResolveSchema) ([]responses.SchemaSection, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("schemaUsecase.ResolveSchema called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, request.AssessmentType),
		zap.String(constvars.LoggingSubjectIDKey, request.SubjectID),
	)

	settings, err := uc.SettingsService.Current(ctx)
	if err != nil {
		uc.Log.Error("schemaUsecase.ResolveSchema error calling SettingsService.Current",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	return uc.Resolve(ctx, settings, request.AssessmentType, request.SubjectID)
}

// Resolve groups the type's questions into sections sorted by category,
// keeping catalog order inside each section. Static questions carry the value
// from the subject record and are disabled. Dynamic questions answered for the
// same subject within the look-back window are pre-filled but stay editable.
func (uc *schemaUsecase) Resolve(ctx context.Context, settings *models.AssessmentSettings, assessmentType, subjectID string) ([]responses.SchemaSection, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if _, ok := settings.FindType(assessmentType); !ok {
		return nil, exceptions.ErrAssessmentTypeNotFound(nil, assessmentType)
	}

	questions := settings.QuestionsFor(assessmentType)

	var recentSessions []models.AssessmentSession
	if hasDynamicQuestion(questions) {
		since := uc.now().AddDate(0, 0, -uc.LookbackDays)
		sessions, err := uc.AssessmentSessionRepository.FindBySubjectIDSince(ctx, subjectID, since)
		if err != nil {
			uc.Log.Error("schemaUsecase.Resolve error calling AssessmentSessionRepository.FindBySubjectIDSince",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSubjectIDKey, subjectID),
				zap.Error(err),
			)
			return nil, err
		}
		recentSessions = sessions
	}

	byCategory := make(map[string][]responses.SchemaQuestion)
	for _, question := range questions {
		item := responses.SchemaQuestion{
			Tag:         question.Tag,
			Text:        question.Text,
			InputType:   question.InputType,
			Category:    question.Category,
			SourceType:  question.SourceType,
			Options:     question.Options,
			ScoringNote: question.ScoringNote,
		}
		if item.Options == nil {
			item.Options = []models.QuestionOption{}
		}

		if question.IsStatic() {
			value, err := uc.staticValue(ctx, question, subjectID)
			if err != nil {
				return nil, err
			}
			item.Value = value
			item.IsImported = true
			item.IsDisabled = true
		} else if value, note, ok := lookBack(recentSessions, question.Tag); ok {
			item.Value = value
			item.IsImported = true
			item.SourceNote = note
		}

		byCategory[question.Category] = append(byCategory[question.Category], item)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	sections := make([]responses.SchemaSection, 0, len(categories))
	for _, category := range categories {
		sections = append(sections, responses.SchemaSection{
			Category:  category,
			Questions: byCategory[category],
		})
	}

	uc.Log.Info("schemaUsecase.Resolve succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentTypeKey, assessmentType),
		zap.Int(constvars.LoggingQuestionsCountKey, len(questions)),
		zap.Int(constvars.LoggingSessionsCountKey, len(recentSessions)),
	)
	return sections, nil
}

func (uc *schemaUsecase) staticValue(ctx context.Context, question models.Question, subjectID string) (models.AnswerValue, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	value, err := uc.SubjectDataProvider.GetStaticFieldValue(ctx, subjectID, question.Tag)
	if err != nil {
		uc.Log.Error("schemaUsecase.staticValue error calling SubjectDataProvider.GetStaticFieldValue",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSubjectIDKey, subjectID),
			zap.String(constvars.LoggingQuestionTagKey, question.Tag),
			zap.Error(err),
		)
		return models.AnswerValue{}, err
	}

	conformed, err := value.Conform(question.InputType)
	if err != nil {
		// Shown as recorded; it will not match any option when scoring.
		uc.Log.Warn("schemaUsecase.staticValue subject field does not match the input type",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQuestionTagKey, question.Tag),
			zap.Error(err),
		)
		return value, nil
	}
	return conformed, nil
}

// lookBack returns the latest non-empty answer for tag. Sessions are most
// recent first.
func lookBack(sessions []models.AssessmentSession, tag string) (models.AnswerValue, string, bool) {
	for _, session := range sessions {
		entry, ok := session.Answers[tag]
		if !ok || entry.Value.IsZero() {
			continue
		}
		return entry.Value, utils.GenerateImportedSourceNote(session.DateStarted), true
	}
	return models.AnswerValue{}, "", false
}

func hasDynamicQuestion(questions []models.Question) bool {
	for _, question := range questions {
		if !question.IsStatic() {
			return true
		}
	}
	return false
}
