package contracts

import (
	"context"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/dto/requests"
	"supervision-service/internal/pkg/dto/responses"
)

type AssessmentTypeUsecase interface {
	ListTypes(ctx context.Context) ([]models.AssessmentType, error)
	CreateType(ctx context.Context, request *requests.CreateAssessmentType) (*models.AssessmentType, error)
	UpdateScoringMatrix(ctx context.Context, request *requests.UpdateScoringMatrix) (*responses.UpdateScoringMatrix, error)
	EvaluateScore(ctx context.Context, request *requests.EvaluateScore) (*responses.ScoreResult, error)
}

type AssessmentTypeRepository interface {
	FindAll(ctx context.Context) ([]models.AssessmentType, error)
	FindByName(ctx context.Context, name string) (*models.AssessmentType, error)
	CreateType(ctx context.Context, assessmentType *models.AssessmentType) error
	// UpsertScoringMatrix reports whether the type had to be created.
	UpsertScoringMatrix(ctx context.Context, name string, matrix []models.ScoringRange) (*models.AssessmentType, bool, error)
	EnsureIndexes(ctx context.Context) error
}
