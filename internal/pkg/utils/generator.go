package utils

import (
	"fmt"
	"supervision-service/internal/pkg/constvars"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.New().String()
}

func GenerateSessionID() string {
	return uuid.New().String()
}

func GenerateArchiveObjectName(subjectID, sessionID string) string {
	return fmt.Sprintf(constvars.SessionArchiveObjectFormat, subjectID, sessionID)
}

func GenerateImportedSourceNote(dateStarted time.Time) string {
	return fmt.Sprintf(constvars.ImportedSourceNoteFormat, dateStarted.Format("2006-01-02"))
}
