// Package workflow drives one officer's assessment from type selection to
// submission. It keeps the form locally and autosaves every change in the
// background.
package workflow

import (
	"context"
	"errors"
	"strings"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/dto/responses"
	"supervision-service/internal/pkg/exceptions"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Phase string

const (
	PhaseSelect    Phase = "Select"
	PhaseForm      Phase = "Form"
	PhaseReview    Phase = "Review"
	PhaseSubmitted Phase = "Submitted"
)

const defaultAutosaveTimeout = 10 * time.Second

var ErrInvalidPhase = errors.New("operation not allowed in the current phase")

// SessionStore is the server side of a session as seen by the officer.
type SessionStore interface {
	StartSession(ctx context.Context, request *requests.StartSession) (*responses.StartSession, error)
	SaveAnswer(ctx context.Context, request *requests.SaveAnswer) (*responses.SaveAnswer, error)
	Calculate(ctx context.Context, sessionID string) (*responses.CalculateSession, error)
	Submit(ctx context.Context, request *requests.SubmitSession) (*models.AssessmentSession, error)
}

type Workflow struct {
	store           SessionStore
	log             *zap.Logger
	autosaveTimeout time.Duration

	mu             sync.Mutex
	phase          Phase
	session        *models.AssessmentSession
	schema         []responses.SchemaSection
	questions      map[string]responses.SchemaQuestion
	answers        map[string]models.AnswerValue
	sequences      map[string]int64
	result         *responses.CalculateSession
	finalLevel     string
	overrideReason string
	requestID      string

	inflight sync.WaitGroup
}

func New(store SessionStore, logger *zap.Logger, autosaveTimeout time.Duration) *Workflow {
	if autosaveTimeout <= 0 {
		autosaveTimeout = defaultAutosaveTimeout
	}
	return &Workflow{
		store:           store,
		log:             logger,
		autosaveTimeout: autosaveTimeout,
		phase:           PhaseSelect,
	}
}

func (w *Workflow) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

func (w *Workflow) Session() *models.AssessmentSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

func (w *Workflow) Schema() []responses.SchemaSection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.schema
}

func (w *Workflow) Result() *responses.CalculateSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

func (w *Workflow) FinalRiskLevel() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finalLevel
}

// Answers returns a copy of the local form values.
func (w *Workflow) Answers() map[string]models.AnswerValue {
	w.mu.Lock()
	defer w.mu.Unlock()
	answers := make(map[string]models.AnswerValue, len(w.answers))
	for tag, value := range w.answers {
		answers[tag] = value
	}
	return answers
}

// Start creates the session and loads its schema. On failure the workflow
// stays in Select.
func (w *Workflow) Start(ctx context.Context, subjectID, assessmentType, dateStarted string) error {
	w.mu.Lock()
	if w.phase != PhaseSelect {
		w.mu.Unlock()
		return ErrInvalidPhase
	}
	w.mu.Unlock()

	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	started, err := w.store.StartSession(ctx, &requests.StartSession{
		SubjectID:      subjectID,
		AssessmentType: assessmentType,
		DateStarted:    dateStarted,
	})
	if err != nil {
		w.log.Error("Workflow.Start error calling SessionStore.StartSession",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSubjectIDKey, subjectID),
			zap.Error(err),
		)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = started.Session
	w.schema = started.Schema
	w.questions = make(map[string]responses.SchemaQuestion)
	w.answers = make(map[string]models.AnswerValue)
	w.sequences = make(map[string]int64)
	w.requestID = requestID
	for _, section := range started.Schema {
		for _, question := range section.Questions {
			w.questions[question.Tag] = question
			if !question.Value.IsZero() {
				w.answers[question.Tag] = question.Value
			}
		}
	}
	w.phase = PhaseForm

	w.log.Info("Workflow.Start succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, started.Session.ID),
		zap.String(constvars.LoggingPhaseKey, string(w.phase)),
	)
	return nil
}

// SetAnswer updates the form and fires one autosave for the change. Disabled,
// static or unknown tags are ignored and false is returned.
func (w *Workflow) SetAnswer(tag string, value models.AnswerValue) bool {
	w.mu.Lock()
	if w.phase != PhaseForm {
		w.mu.Unlock()
		return false
	}
	question, ok := w.questions[tag]
	if !ok || question.IsDisabled || question.SourceType == models.SourceTypeStatic {
		w.mu.Unlock()
		return false
	}

	if value.IsZero() {
		delete(w.answers, tag)
	} else {
		w.answers[tag] = value
	}
	w.sequences[tag]++
	request := &requests.SaveAnswer{
		SessionID: w.session.ID,
		Tag:       tag,
		Value:     value,
		Sequence:  w.sequences[tag],
	}
	requestID := w.requestID
	w.inflight.Add(1)
	w.mu.Unlock()

	go w.autosave(requestID, request)
	return true
}

// autosave runs detached from any caller context so cancelling the form never
// drops a write already sent.
func (w *Workflow) autosave(requestID string, request *requests.SaveAnswer) {
	defer w.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), w.autosaveTimeout)
	defer cancel()
	if requestID != "" {
		ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, requestID)
	}

	response, err := w.store.SaveAnswer(ctx, request)
	if err != nil {
		w.log.Warn("Workflow.autosave error calling SessionStore.SaveAnswer",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, request.SessionID),
			zap.String(constvars.LoggingQuestionTagKey, request.Tag),
			zap.Int64(constvars.LoggingSequenceKey, request.Sequence),
			zap.Error(err),
		)
		return
	}
	w.log.Debug("Workflow.autosave succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionTagKey, request.Tag),
		zap.Bool(constvars.LoggingAppliedKey, response.Applied),
	)
}

// Wait blocks until every autosave sent so far has finished.
func (w *Workflow) Wait() {
	w.inflight.Wait()
}

// Review flushes pending autosaves and calculates. On failure the workflow
// stays in Form.
func (w *Workflow) Review(ctx context.Context) error {
	w.mu.Lock()
	if w.phase != PhaseForm {
		w.mu.Unlock()
		return ErrInvalidPhase
	}
	sessionID := w.session.ID
	w.mu.Unlock()

	w.Wait()

	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	result, err := w.store.Calculate(ctx, sessionID)
	if err != nil {
		w.log.Error("Workflow.Review error calling SessionStore.Calculate",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseForm {
		return ErrInvalidPhase
	}
	w.result = result
	w.finalLevel = result.RiskLevel
	w.overrideReason = ""
	w.phase = PhaseReview
	return nil
}

func (w *Workflow) BackToForm() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseReview {
		return ErrInvalidPhase
	}
	w.phase = PhaseForm
	return nil
}

func (w *Workflow) SetFinalRiskLevel(level string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseReview {
		return ErrInvalidPhase
	}
	w.finalLevel = level
	return nil
}

func (w *Workflow) SetOverrideReason(reason string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseReview {
		return ErrInvalidPhase
	}
	w.overrideReason = reason
	return nil
}

// CanSubmit reports whether the review satisfies the override rule.
func (w *Workflow) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSubmitLocked()
}

func (w *Workflow) canSubmitLocked() bool {
	if w.phase != PhaseReview || w.result == nil {
		return false
	}
	return w.finalLevel == w.result.RiskLevel || strings.TrimSpace(w.overrideReason) != ""
}

func (w *Workflow) Submit(ctx context.Context) (*models.AssessmentSession, error) {
	w.mu.Lock()
	if w.phase != PhaseReview {
		w.mu.Unlock()
		return nil, ErrInvalidPhase
	}
	if !w.canSubmitLocked() {
		finalLevel, calculatedLevel := w.finalLevel, w.result.RiskLevel
		w.mu.Unlock()
		return nil, exceptions.ErrOverrideReasonRequired(nil, finalLevel, calculatedLevel)
	}
	request := &requests.SubmitSession{
		SessionID:      w.session.ID,
		FinalRiskLevel: w.finalLevel,
		OverrideReason: strings.TrimSpace(w.overrideReason),
	}
	w.mu.Unlock()

	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	session, err := w.store.Submit(ctx, request)
	if err != nil {
		w.log.Error("Workflow.Submit error calling SessionStore.Submit",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, request.SessionID),
			zap.Error(err),
		)
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = session
	w.phase = PhaseSubmitted

	w.log.Info("Workflow.Submit succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.String(constvars.LoggingFinalRiskLevelKey, request.FinalRiskLevel),
	)
	return session, nil
}

// Cancel discards the local form. Autosaves already sent still complete and
// the server session stays in progress.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.phase = PhaseSelect
	w.session = nil
	w.schema = nil
	w.questions = nil
	w.answers = nil
	w.sequences = nil
	w.result = nil
	w.finalLevel = ""
	w.overrideReason = ""
}
