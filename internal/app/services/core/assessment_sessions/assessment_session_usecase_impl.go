package assessment_sessions

import (
	"context"
	"strings"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/app/models"
	"supervision-service/internal/app/services/core/scoring"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/dto/responses"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

type assessmentSessionUsecase struct {
	AssessmentSessionRepository contracts.AssessmentSessionRepository
	SchemaUsecase               contracts.SchemaUsecase
	SettingsService             contracts.SettingsService
	LockerService               contracts.LockerService
	EventPublisher              contracts.AssessmentEventPublisher
	ArchiveStorage              contracts.SessionArchiveStorage
	LockTTL                     time.Duration
	Location                    *time.Location
	Log                         *zap.Logger
	now                         func() time.Time
}

var (
	assessmentSessionUsecaseInstance contracts.AssessmentSessionUsecase
	onceAssessmentSessionUsecase     sync.Once
)

// NewAssessmentSessionUsecase wires the session lifecycle. eventPublisher and
// archiveStorage may be nil, submission then skips that side effect.
func NewAssessmentSessionUsecase(
	assessmentSessionRepository contracts.AssessmentSessionRepository,
	schemaUsecase contracts.SchemaUsecase,
	settingsService contracts.SettingsService,
	lockerService contracts.LockerService,
	eventPublisher contracts.AssessmentEventPublisher,
	archiveStorage contracts.SessionArchiveStorage,
	lockTTL time.Duration,
	location *time.Location,
	logger *zap.Logger,
) contracts.AssessmentSessionUsecase {
	onceAssessmentSessionUsecase.Do(func() {
		assessmentSessionUsecaseInstance = newAssessmentSessionUsecase(
			assessmentSessionRepository,
			schemaUsecase,
			settingsService,
			lockerService,
			eventPublisher,
			archiveStorage,
			lockTTL,
			location,
			logger,
		)
	})
	return assessmentSessionUsecaseInstance
}

func newAssessmentSessionUsecase(
	assessmentSessionRepository contracts.AssessmentSessionRepository,
	schemaUsecase contracts.SchemaUsecase,
	settingsService contracts.SettingsService,
	lockerService contracts.LockerService,
	eventPublisher contracts.AssessmentEventPublisher,
	archiveStorage contracts.SessionArchiveStorage,
	lockTTL time.Duration,
	location *time.Location,
	logger *zap.Logger,
) *assessmentSessionUsecase {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	if location == nil {
		location = time.UTC
	}
	return &assessmentSessionUsecase{
		AssessmentSessionRepository: assessmentSessionRepository,
		SchemaUsecase:               schemaUsecase,
		SettingsService:             settingsService,
		LockerService:               lockerService,
		EventPublisher:              eventPublisher,
		ArchiveStorage:              archiveStorage,
		LockTTL:                     lockTTL,
		Location:                    location,
		Log:                         logger,
		now:                         time.Now,
	}
}

func (uc *assessmentSessionUsecase) StartSession(ctx context.Context, request *requests.StartSession) (*responses.StartSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentSessionUsecase.StartSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubjectIDKey, request.SubjectID),
		zap.String(constvars.LoggingAssessmentTypeKey, request.AssessmentType),
	)

	dateStarted, err := utils.ParseDateOrToday(request.DateStarted, uc.Location)
	if err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	settings, err := uc.SettingsService.Current(ctx)
	if err != nil {
		uc.Log.Error("assessmentSessionUsecase.StartSession error calling SettingsService.Current",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	sections, err := uc.SchemaUsecase.Resolve(ctx, settings, request.AssessmentType, request.SubjectID)
	if err != nil {
		uc.Log.Error("assessmentSessionUsecase.StartSession error calling SchemaUsecase.Resolve",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	now := uc.now()
	session := &models.AssessmentSession{
		ID:                 utils.GenerateSessionID(),
		SubjectID:          request.SubjectID,
		AssessmentTypeName: request.AssessmentType,
		DateStarted:        dateStarted,
		Status:             models.SessionStatusInProgress,
		Answers:            make(map[string]models.AnswerEntry),
		StaticValues:       make(map[string]models.AnswerValue),
	}
	session.CreatedAt = now
	session.UpdatedAt = now
	seedFromSchema(session, sections, now)

	err = uc.AssessmentSessionRepository.CreateSession(ctx, session)
	if err != nil {
		uc.Log.Error("assessmentSessionUsecase.StartSession error calling AssessmentSessionRepository.CreateSession",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("assessmentSessionUsecase.StartSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
	)
	return &responses.StartSession{
		Session: session,
		Schema:  sections,
	}, nil
}

func (uc *assessmentSessionUsecase) FindSession(ctx context.Context, sessionID string) (*models.AssessmentSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentSessionUsecase.FindSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	session, err := uc.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("assessmentSessionUsecase.FindSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)
	return session, nil
}

func (uc *assessmentSessionUsecase) ListSessions(ctx context.Context, subjectID string) ([]models.AssessmentSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentSessionUsecase.ListSessions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubjectIDKey, subjectID),
	)

	sessions, err := uc.AssessmentSessionRepository.FindBySubjectID(ctx, subjectID)
	if err != nil {
		uc.Log.Error("assessmentSessionUsecase.ListSessions error calling AssessmentSessionRepository.FindBySubjectID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("assessmentSessionUsecase.ListSessions succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingSessionsCountKey, len(sessions)),
	)
	return sessions, nil
}

// SaveAnswer stores one autosaved answer. A zero value clears the answer. A
// write older than the stored sequence is acknowledged but not applied.
func (uc *assessmentSessionUsecase) SaveAnswer(ctx context.Context, request *requests.SaveAnswer) (*responses.SaveAnswer, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentSessionUsecase.SaveAnswer called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
		zap.String(constvars.LoggingQuestionTagKey, request.Tag),
		zap.Int64(constvars.LoggingSequenceKey, request.Sequence),
	)

	session, err := uc.findSession(ctx, request.SessionID)
	if err != nil {
		return nil, err
	}
	if session.IsSubmitted() {
		return nil, exceptions.ErrSessionAlreadySubmitted(nil, session.ID)
	}

	settings, err := uc.SettingsService.Current(ctx)
	if err != nil {
		uc.Log.Error("assessmentSessionUsecase.SaveAnswer error calling SettingsService.Current",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	question, ok := settings.FindQuestion(request.Tag)
	if !ok || !question.AppliesTo(session.AssessmentTypeName) || question.IsStatic() {
		uc.Log.Warn("assessmentSessionUsecase.SaveAnswer rejected tag",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQuestionTagKey, request.Tag),
			zap.String(constvars.LoggingAssessmentTypeKey, session.AssessmentTypeName),
		)
		return nil, exceptions.ErrAnswerNotEditable(nil, request.Tag, session.AssessmentTypeName)
	}

	value, err := request.Value.Conform(question.InputType)
	if err != nil {
		return nil, exceptions.ErrInvalidAnswerValue(err, request.Tag)
	}

	entry := models.AnswerEntry{
		Value:     value,
		Sequence:  request.Sequence,
		UpdatedAt: uc.now(),
	}
	applied, err := uc.AssessmentSessionRepository.SaveAnswer(ctx, session.ID, request.Tag, entry)
	if err != nil {
		uc.Log.Error("assessmentSessionUsecase.SaveAnswer error calling AssessmentSessionRepository.SaveAnswer",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	response := &responses.SaveAnswer{
		SessionID: session.ID,
		Tag:       request.Tag,
		Applied:   applied,
		Status:    models.SessionStatusInProgress,
		Sequence:  request.Sequence,
	}

	if !applied {
		// Either the session was submitted meanwhile or a newer write won.
		current, err := uc.findSession(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		if current.IsSubmitted() {
			return nil, exceptions.ErrSessionAlreadySubmitted(nil, session.ID)
		}
		response.Status = current.Status
		response.Sequence = current.Answers[request.Tag].Sequence
		uc.Log.Info("assessmentSessionUsecase.SaveAnswer stale write ignored",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQuestionTagKey, request.Tag),
			zap.Int64(constvars.LoggingSequenceKey, request.Sequence),
		)
		return response, nil
	}

	uc.Log.Info("assessmentSessionUsecase.SaveAnswer succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.String(constvars.LoggingQuestionTagKey, request.Tag),
	)
	return response, nil
}

// Calculate scores the persisted answers. A submitted session returns its
// stored result untouched.
func (uc *assessmentSessionUsecase) Calculate(ctx context.Context, sessionID string) (*responses.CalculateSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentSessionUsecase.Calculate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	unlock, err := uc.lockSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := uc.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	settings, err := uc.SettingsService.Current(ctx)
	if err != nil {
		uc.Log.Error("assessmentSessionUsecase.Calculate error calling SettingsService.Current",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	matrix := matrixFor(settings, session.AssessmentTypeName)

	if session.IsSubmitted() {
		return storedResult(session, matrix), nil
	}

	result := scoring.Evaluate(session.ScoringAnswers(), settings.QuestionsFor(session.AssessmentTypeName), matrix)
	calculation := &models.SessionCalculation{
		TotalScore:     result.TotalScore,
		CategoryScores: result.CategoryScores,
		ScoreDetails:   result.Details,
		RiskLevel:      result.RiskLevel,
		CalculatedAt:   uc.now(),
	}

	saved, err := uc.AssessmentSessionRepository.SaveCalculation(ctx, session.ID, calculation)
	if err != nil {
		uc.Log.Error("assessmentSessionUsecase.Calculate error calling AssessmentSessionRepository.SaveCalculation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if !saved {
		current, err := uc.findSession(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		return storedResult(current, matrix), nil
	}

	uc.Log.Info("assessmentSessionUsecase.Calculate succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.Int(constvars.LoggingTotalScoreKey, result.TotalScore),
		zap.String(constvars.LoggingRiskLevelKey, result.RiskLevel),
	)
	return &responses.CalculateSession{
		SessionID: session.ID,
		Status:    models.SessionStatusCalculated,
		ScoreResult: responses.ScoreResult{
			TotalScore:     result.TotalScore,
			CategoryScores: result.CategoryScores,
			Details:        result.Details,
			RiskLevel:      result.RiskLevel,
			Levels:         scoring.Levels(matrix),
		},
	}, nil
}

// Submit finalises a calculated session. A final level different from the
// calculated one needs a non-blank reason.
func (uc *assessmentSessionUsecase) Submit(ctx context.Context, request *requests.SubmitSession) (*models.AssessmentSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("assessmentSessionUsecase.Submit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
		zap.String(constvars.LoggingFinalRiskLevelKey, request.FinalRiskLevel),
	)

	unlock, err := uc.lockSession(ctx, request.SessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := uc.findSession(ctx, request.SessionID)
	if err != nil {
		return nil, err
	}
	if session.IsSubmitted() {
		return nil, exceptions.ErrSessionAlreadySubmitted(nil, session.ID)
	}
	if session.Status != models.SessionStatusCalculated || session.CalculatedRiskLevel == nil {
		return nil, exceptions.ErrSessionNotCalculated(nil, session.ID, string(session.Status))
	}

	settings, err := uc.SettingsService.Current(ctx)
	if err != nil {
		uc.Log.Error("assessmentSessionUsecase.Submit error calling SettingsService.Current",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	calculatedLevel := *session.CalculatedRiskLevel
	finalLevel := strings.TrimSpace(request.FinalRiskLevel)
	if finalLevel == "" {
		finalLevel = calculatedLevel
	}
	if finalLevel != calculatedLevel && !scoring.HasLevel(matrixFor(settings, session.AssessmentTypeName), finalLevel) {
		return nil, exceptions.ErrInvalidRiskLevel(nil, finalLevel, session.AssessmentTypeName)
	}

	reason := strings.TrimSpace(request.OverrideReason)
	if finalLevel != calculatedLevel && reason == "" {
		uc.Log.Warn("assessmentSessionUsecase.Submit override without reason",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, session.ID),
			zap.String(constvars.LoggingRiskLevelKey, calculatedLevel),
			zap.String(constvars.LoggingFinalRiskLevelKey, finalLevel),
		)
		return nil, exceptions.ErrOverrideReasonRequired(nil, finalLevel, calculatedLevel)
	}

	submission := &models.SessionSubmission{
		FinalRiskLevel: finalLevel,
		SubmittedAt:    uc.now(),
	}
	if reason != "" {
		submission.OverrideReason = &reason
	}

	submitted, err := uc.AssessmentSessionRepository.MarkSubmitted(ctx, session.ID, submission)
	if err != nil {
		uc.Log.Error("assessmentSessionUsecase.Submit error calling AssessmentSessionRepository.MarkSubmitted",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if !submitted {
		current, err := uc.findSession(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		if current.IsSubmitted() {
			return nil, exceptions.ErrSessionAlreadySubmitted(nil, session.ID)
		}
		return nil, exceptions.ErrSessionNotCalculated(nil, session.ID, string(current.Status))
	}

	session.Status = models.SessionStatusSubmitted
	session.FinalRiskLevel = &submission.FinalRiskLevel
	session.OverrideReason = submission.OverrideReason
	session.SubmittedAt = &submission.SubmittedAt
	session.UpdatedAt = submission.SubmittedAt

	uc.publishSubmitted(ctx, session)
	uc.archive(ctx, session)

	uc.Log.Info("assessmentSessionUsecase.Submit succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.String(constvars.LoggingFinalRiskLevelKey, finalLevel),
		zap.Bool(constvars.LoggingOverriddenKey, session.IsOverridden()),
	)
	return session, nil
}

func (uc *assessmentSessionUsecase) findSession(ctx context.Context, sessionID string) (*models.AssessmentSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	session, err := uc.AssessmentSessionRepository.FindByID(ctx, sessionID)
	if err != nil {
		uc.Log.Error("assessmentSessionUsecase.findSession error calling AssessmentSessionRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, err
	}
	if session == nil {
		return nil, exceptions.ErrSessionNotFound(nil, sessionID)
	}
	return session, nil
}

func (uc *assessmentSessionUsecase) lockSession(ctx context.Context, sessionID string) (func(), error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	key := constvars.RedisKeySessionLockPrefix + sessionID

	acquired, lockValue, err := uc.LockerService.TryLock(ctx, key, uc.LockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		uc.Log.Warn("assessmentSessionUsecase.lockSession session is busy",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
		)
		return nil, exceptions.ErrSessionLocked(nil, sessionID)
	}

	return func() {
		if err := uc.LockerService.Unlock(context.WithoutCancel(ctx), key, lockValue); err != nil {
			uc.Log.Warn("assessmentSessionUsecase.lockSession error releasing lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSessionIDKey, sessionID),
				zap.Error(err),
			)
		}
	}, nil
}

func (uc *assessmentSessionUsecase) publishSubmitted(ctx context.Context, session *models.AssessmentSession) {
	if uc.EventPublisher == nil {
		return
	}
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	event := &models.AssessmentSubmittedEvent{
		EventType:           constvars.EventTypeAssessmentSubmitted,
		SessionID:           session.ID,
		SubjectID:           session.SubjectID,
		AssessmentType:      session.AssessmentTypeName,
		CalculatedRiskLevel: derefString(session.CalculatedRiskLevel),
		FinalRiskLevel:      derefString(session.FinalRiskLevel),
		Overridden:          session.IsOverridden(),
		OverrideReason:      derefString(session.OverrideReason),
	}
	if session.TotalScore != nil {
		event.TotalScore = *session.TotalScore
	}
	if session.SubmittedAt != nil {
		event.SubmittedAt = *session.SubmittedAt
	}

	if err := uc.EventPublisher.PublishAssessmentSubmitted(ctx, event); err != nil {
		uc.Log.Error("assessmentSessionUsecase.publishSubmitted error calling EventPublisher.PublishAssessmentSubmitted",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, session.ID),
			zap.Error(err),
		)
	}
}

func (uc *assessmentSessionUsecase) archive(ctx context.Context, session *models.AssessmentSession) {
	if uc.ArchiveStorage == nil {
		return
	}
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if _, err := uc.ArchiveStorage.ArchiveSession(ctx, session); err != nil {
		uc.Log.Error("assessmentSessionUsecase.archive error calling ArchiveStorage.ArchiveSession",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, session.ID),
			zap.Error(err),
		)
	}
}

// seedFromSchema copies resolved static values and look-back imports onto a
// new session.
func seedFromSchema(session *models.AssessmentSession, sections []responses.SchemaSection, now time.Time) {
	for _, section := range sections {
		for _, question := range section.Questions {
			if question.Value.IsZero() {
				continue
			}
			if question.SourceType == models.SourceTypeStatic {
				session.StaticValues[question.Tag] = question.Value
				continue
			}
			if question.IsImported {
				session.Answers[question.Tag] = models.AnswerEntry{
					Value:      question.Value,
					Imported:   true,
					SourceNote: question.SourceNote,
					UpdatedAt:  now,
				}
			}
		}
	}
}

func matrixFor(settings *models.AssessmentSettings, assessmentType string) []models.ScoringRange {
	if found, ok := settings.FindType(assessmentType); ok {
		return found.ScoringMatrix
	}
	return nil
}

func storedResult(session *models.AssessmentSession, matrix []models.ScoringRange) *responses.CalculateSession {
	response := &responses.CalculateSession{
		SessionID: session.ID,
		Status:    session.Status,
		ScoreResult: responses.ScoreResult{
			CategoryScores: session.CategoryScores,
			Details:        session.ScoreDetails,
			RiskLevel:      derefString(session.CalculatedRiskLevel),
			Levels:         scoring.Levels(matrix),
		},
	}
	if session.TotalScore != nil {
		response.TotalScore = *session.TotalScore
	}
	return response
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
