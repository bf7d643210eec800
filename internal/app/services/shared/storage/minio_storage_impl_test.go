package storage

import (
	"context"
	"errors"
	"io"
	"supervision-service/internal/app/models"
	"testing"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockObjectPutter struct {
	mock.Mock
	body []byte
}

func (m *MockObjectPutter) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	m.body, _ = io.ReadAll(reader)
	args := m.Called(bucketName, objectName, objectSize, opts.ContentType)
	return minio.UploadInfo{}, args.Error(0)
}

func TestArchiveSession(t *testing.T) {
	session := &models.AssessmentSession{
		ID:                 "5b0c7a52-3c51-4a43-9b1e-1c0e1c0e1c0e",
		SubjectID:          "subject-1",
		AssessmentTypeName: "ORAS",
		Status:             models.SessionStatusSubmitted,
	}

	t.Run("Stores JSON Snapshot", func(t *testing.T) {
		putter := new(MockObjectPutter)
		putter.On("PutObject", "assessment-archive", "subject-1/5b0c7a52-3c51-4a43-9b1e-1c0e1c0e1c0e.json", mock.AnythingOfType("int64"), "application/json").Return(nil)
		archive := NewMinioSessionArchive(putter, "assessment-archive", zap.NewNop())

		objectName, err := archive.ArchiveSession(context.Background(), session)

		require.NoError(t, err)
		assert.Equal(t, "subject-1/5b0c7a52-3c51-4a43-9b1e-1c0e1c0e1c0e.json", objectName)

		var stored models.AssessmentSession
		require.NoError(t, json.Unmarshal(putter.body, &stored))
		assert.Equal(t, session.ID, stored.ID)
		assert.Equal(t, models.SessionStatusSubmitted, stored.Status)
		putter.AssertExpectations(t)
	})

	t.Run("Upload Failure", func(t *testing.T) {
		putter := new(MockObjectPutter)
		putter.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket missing"))
		archive := NewMinioSessionArchive(putter, "assessment-archive", zap.NewNop())

		_, err := archive.ArchiveSession(context.Background(), session)

		assert.Error(t, err)
	})
}
