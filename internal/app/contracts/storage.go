package contracts

import (
	"context"
	"supervision-service/internal/app/models"
)

type SessionArchiveStorage interface {
	// ArchiveSession stores a JSON snapshot and returns the object name.
	ArchiveSession(ctx context.Context, session *models.AssessmentSession) (string, error)
}
