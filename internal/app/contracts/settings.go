package contracts

import (
	"context"
	"supervision-service/internal/app/models"
)

// SettingsService serves the question catalog and scoring matrices shared by
// every session as an immutable snapshot.
type SettingsService interface {
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
	// Invalidate marks the snapshot stale for every instance after a write.
	Invalidate(ctx context.Context) error
	Current(ctx context.Context) (*models.AssessmentSettings, error)
}
