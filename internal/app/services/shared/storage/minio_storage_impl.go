package storage

import (
	"bytes"
	"context"
	"io"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ObjectPutter is the part of *minio.Client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type minioStorage struct {
	MinioClient ObjectPutter
	BucketName  string
	Log         *zap.Logger
}

func NewMinioSessionArchive(minioClient ObjectPutter, bucketName string, logger *zap.Logger) contracts.SessionArchiveStorage {
	return &minioStorage{
		MinioClient: minioClient,
		BucketName:  bucketName,
		Log:         logger,
	}
}

func (m *minioStorage) ArchiveSession(ctx context.Context, session *models.AssessmentSession) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	payload, err := json.Marshal(session)
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}

	objectName := utils.GenerateArchiveObjectName(session.SubjectID, session.ID)
	_, err = m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{
			ContentType: constvars.MIMEApplicationJSON,
		},
	)
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, m.BucketName)
	}

	m.Log.Info("minioStorage.ArchiveSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketNameKey, m.BucketName),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)
	return objectName, nil
}
