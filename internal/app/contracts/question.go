package contracts

import (
	"context"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/dto/requests"
)

type QuestionUsecase interface {
	ListQuestions(ctx context.Context, request *requests.FindAllQuestions) ([]models.Question, error)
	CreateQuestion(ctx context.Context, request *requests.CreateQuestion) (*models.Question, error)
	UpdateQuestion(ctx context.Context, request *requests.UpdateQuestion) (*models.Question, error)
	// UpsertQuestion creates the question or replaces every field but the tag.
	UpsertQuestion(ctx context.Context, request *requests.CreateQuestion) (*models.Question, bool, error)
}

type QuestionRepository interface {
	FindAll(ctx context.Context, tool string) ([]models.Question, error)
	FindByTag(ctx context.Context, tag string) (*models.Question, error)
	CreateQuestion(ctx context.Context, question *models.Question) error
	UpdateQuestion(ctx context.Context, question *models.Question) error
	EnsureIndexes(ctx context.Context) error
}
