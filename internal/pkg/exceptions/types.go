package exceptions

import (
	"fmt"
	"supervision-service/internal/pkg/constvars"
)

var (
	ErrURLParamValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamValidationFailed, paramName))
	}
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrTooManyRequests = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests, constvars.ErrDevRequestLimitExceeded)
	}

	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}
	ErrReadBody = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevReadBody)
	}

	// Parse
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotParseCSV = func(err error, row int) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevCannotParseCSV, row))
	}

	// Auth
	ErrAPIKeyMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthAPIKeyMissing)
	}
	ErrAPIKeyInvalid = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthAPIKeyInvalid)
	}
	ErrAPIKeyNotConfigured = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthAPIKeyNotConfigured)
	}
	ErrTokenGenerate = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevAuthGenerateToken)
	}

	// Questions
	ErrQuestionNotFound = func(err error, tag string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientQuestionNotFound, fmt.Sprintf(constvars.ErrDevQuestionNotFound, tag))
	}
	ErrQuestionAlreadyExists = func(err error, tag string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientQuestionAlreadyExists, fmt.Sprintf(constvars.ErrDevQuestionAlreadyExists, tag))
	}
	ErrInvalidOptions = func(err error, tag string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidOptions, fmt.Sprintf(constvars.ErrDevInvalidOptions, tag))
	}

	// Assessment types
	ErrAssessmentTypeNotFound = func(err error, name string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientAssessmentTypeNotFound, fmt.Sprintf(constvars.ErrDevAssessmentTypeNotFound, name))
	}
	ErrAssessmentTypeAlreadyExists = func(err error, name string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientAssessmentTypeAlreadyExists, fmt.Sprintf(constvars.ErrDevAssessmentTypeAlreadyExists, name))
	}
	ErrInvalidScoringRange = func(err error, assessmentType string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidScoringRange, fmt.Sprintf(constvars.ErrDevInvalidScoringRange, assessmentType))
	}

	// Sessions
	ErrSessionNotFound = func(err error, sessionID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientSessionNotFound, fmt.Sprintf(constvars.ErrDevSessionNotFound, sessionID))
	}
	ErrSessionAlreadySubmitted = func(err error, sessionID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientSessionAlreadySubmitted, fmt.Sprintf(constvars.ErrDevSessionAlreadySubmitted, sessionID))
	}
	ErrSessionNotCalculated = func(err error, sessionID, status string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientSessionNotCalculated, fmt.Sprintf(constvars.ErrDevSessionNotCalculated, sessionID, status))
	}
	ErrSessionLocked = func(err error, sessionID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusServiceUnavailable, constvars.ErrClientSessionBusy, fmt.Sprintf(constvars.ErrDevSessionLocked, sessionID))
	}
	ErrAnswerNotEditable = func(err error, tag, assessmentType string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientAnswerNotEditable, fmt.Sprintf(constvars.ErrDevAnswerNotEditable, tag, assessmentType))
	}
	ErrInvalidAnswerValue = func(err error, tag string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidAnswerValue, fmt.Sprintf(constvars.ErrDevInvalidAnswerValue, tag))
	}
	ErrOverrideReasonRequired = func(err error, finalLevel, calculatedLevel string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnprocessableEntity, constvars.ErrClientOverrideReasonRequired, fmt.Sprintf(constvars.ErrDevOverrideReasonRequired, finalLevel, calculatedLevel))
	}
	ErrInvalidRiskLevel = func(err error, level, assessmentType string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidRiskLevel, fmt.Sprintf(constvars.ErrDevInvalidRiskLevel, level, assessmentType))
	}

	// Subjects
	ErrSubjectNotFound = func(err error, subjectID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientSubjectNotFound, fmt.Sprintf(constvars.ErrDevSubjectNotFound, subjectID))
	}
	ErrSubjectProviderUnavailable = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusServiceUnavailable, constvars.ErrClientSubjectProviderUnavailable, constvars.ErrDevSubjectProviderFailed)
	}

	// Settings
	ErrSettingsNotLoaded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusServiceUnavailable, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevSettingsNotLoaded)
	}

	// Mongo DB
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToFindDocument)
	}
	ErrMongoDBIterateDocuments = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToIterateDocuments)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToUpdateDocument)
	}
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToInsertDocument)
	}
	ErrMongoDBCreateIndex = func(err error, collection string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevDBFailedToCreateIndex, collection))
	}

	// Minio
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioFailedToCreateObject, bucketName))
	}

	// Redis
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData)
	}
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisIncrement = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisIncrement)
	}

	// RabbitMQ
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName))
	}

	// HTTP
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCreateHTTPRequest)
	}
	ErrSendHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusServiceUnavailable, constvars.ErrClientCannotProcessRequest, constvars.ErrDevSendHTTPRequest)
	}

	// Default Server
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevServerProcess)
	}
)
