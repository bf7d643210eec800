package contracts

import (
	"context"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/dto/responses"
	"time"
)

type AssessmentSessionUsecase interface {
	StartSession(ctx context.Context, request *requests.StartSession) (*responses.StartSession, error)
	FindSession(ctx context.Context, sessionID string) (*models.AssessmentSession, error)
	ListSessions(ctx context.Context, subjectID string) ([]models.AssessmentSession, error)
	SaveAnswer(ctx context.Context, request *requests.SaveAnswer) (*responses.SaveAnswer, error)
	Calculate(ctx context.Context, sessionID string) (*responses.CalculateSession, error)
	Submit(ctx context.Context, request *requests.SubmitSession) (*models.AssessmentSession, error)
}

type AssessmentSessionRepository interface {
	CreateSession(ctx context.Context, session *models.AssessmentSession) error
	FindByID(ctx context.Context, sessionID string) (*models.AssessmentSession, error)
	// FindBySubjectID returns sessions most recent first.
	FindBySubjectID(ctx context.Context, subjectID string) ([]models.AssessmentSession, error)
	FindBySubjectIDSince(ctx context.Context, subjectID string, since time.Time) ([]models.AssessmentSession, error)
	// SaveAnswer applies the entry unless the session is submitted or the
	// stored entry carries a sequence at least as new.
	SaveAnswer(ctx context.Context, sessionID, tag string, entry models.AnswerEntry) (bool, error)
	SaveCalculation(ctx context.Context, sessionID string, calculation *models.SessionCalculation) (bool, error)
	MarkSubmitted(ctx context.Context, sessionID string, submission *models.SessionSubmission) (bool, error)
	EnsureIndexes(ctx context.Context) error
}
