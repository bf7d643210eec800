package contracts

import (
	"context"
	"supervision-service/internal/app/models"
)

// SubjectDataProvider reads fields of the supervised person's record kept by
// the case-records service. A missing field yields the zero AnswerValue.
type SubjectDataProvider interface {
	GetStaticFieldValue(ctx context.Context, subjectID, tag string) (models.AnswerValue, error)
}
