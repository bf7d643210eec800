package contracts

import (
	"context"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/dto/responses"
)

type SchemaUsecase interface {
	ResolveSchema(ctx context.Context, request *requests.ResolveSchema) ([]responses.SchemaSection, error)
	// Resolve builds the sections from a snapshot the caller already holds.
	Resolve(ctx context.Context, settings *models.AssessmentSettings, assessmentType, subjectID string) ([]responses.SchemaSection, error)
}
