package contracts

import (
	"context"
	"supervision-service/internal/app/models"
)

type AssessmentEventPublisher interface {
	PublishAssessmentSubmitted(ctx context.Context, event *models.AssessmentSubmittedEvent) error
}
