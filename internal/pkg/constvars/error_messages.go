package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":        "is required",
	"alphanum":        "must contain only alphanumeric characters",
	"min":             "must be at least %s",
	"max":             "must be at most %s",
	"numeric":         "must be a number",
	"oneof":           "must be one of [%s]",
	"gt":              "must be greater than %s",
	"gte":             "must be greater than or equal to %s",
	"lt":              "must be less than %s",
	"lte":             "must be less than or equal to %s",
	"uuid":            "must be a valid UUID",
	"dive":            "contains an invalid item",
	"question_tag":    "must contain only letters, digits, underscores or hyphens",
	"input_type":      "must be one of [boolean, select, integer, date, scale_0_3]",
	"source_type":     "must be either 'dynamic' or 'static'",
	"required_with":   "is required when %s is present",
	"excluded_unless": "is not allowed unless %s",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":             true,
	"max":             true,
	"gt":              true,
	"gte":             true,
	"lt":              true,
	"lte":             true,
	"oneof":           true,
	"required_with":   true,
	"excluded_unless": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientQuestionNotFound              = "question not found"
	ErrClientQuestionAlreadyExists         = "a question with this tag already exists"
	ErrClientInvalidOptions                = "question options are invalid"
	ErrClientAssessmentTypeNotFound        = "assessment type not found"
	ErrClientAssessmentTypeAlreadyExists   = "an assessment type with this name already exists"
	ErrClientInvalidScoringRange           = "scoring matrix is invalid"
	ErrClientSessionNotFound               = "assessment session not found"
	ErrClientSessionAlreadySubmitted       = "assessment session is already submitted"
	ErrClientSessionNotCalculated          = "assessment session must be calculated before submission"
	ErrClientSessionBusy                   = "assessment session is being processed, please retry"
	ErrClientAnswerNotEditable             = "this question cannot be answered in the session"
	ErrClientInvalidAnswerValue            = "answer value does not match the question input type"
	ErrClientOverrideReasonRequired        = "override reason is required when the final risk level differs from the calculated one"
	ErrClientInvalidRiskLevel              = "final risk level is not a level of this assessment type"
	ErrClientSubjectNotFound               = "subject not found"
	ErrClientSubjectProviderUnavailable    = "subject data is temporarily unavailable"
	ErrClientTooManyRequests               = "too many requests, please slow down"
)

// Error messages for developers
const (
	ErrDevCannotParseJSON         = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON       = "cannot convert struct or other data types to JSON"
	ErrDevCannotParseCSV          = "cannot parse CSV row %d"
	ErrDevCreateHTTPRequest       = "failed to create HTTP request"
	ErrDevSendHTTPRequest         = "failed to send HTTP request"
	ErrDevAuthGenerateToken       = "failed to generate token"
	ErrDevAuthAPIKeyMissing       = "api key missing"
	ErrDevAuthAPIKeyInvalid       = "api key invalid"
	ErrDevAuthAPIKeyNotConfigured = "admin api key hash is not configured"

	// Usecase messages
	ErrDevQuestionNotFound            = "question with tag %s not found"
	ErrDevQuestionAlreadyExists       = "question with tag %s already exists"
	ErrDevInvalidOptions              = "invalid options for question %s"
	ErrDevAssessmentTypeNotFound      = "assessment type %s is neither registered nor referenced"
	ErrDevAssessmentTypeAlreadyExists = "assessment type %s already exists"
	ErrDevInvalidScoringRange         = "scoring matrix for %s is invalid"
	ErrDevSessionNotFound             = "assessment session %s not found"
	ErrDevSessionAlreadySubmitted     = "assessment session %s is already submitted"
	ErrDevSessionNotCalculated        = "assessment session %s has status %s, expected Calculated"
	ErrDevSessionLocked               = "assessment session %s is locked by another operation"
	ErrDevAnswerNotEditable           = "question %s is static or not part of assessment type %s"
	ErrDevInvalidAnswerValue          = "answer for question %s rejected"
	ErrDevOverrideReasonRequired      = "final risk level %s differs from calculated %s without reason"
	ErrDevInvalidRiskLevel            = "final risk level %s is not defined for assessment type %s"
	ErrDevSubjectNotFound             = "subject %s not found on provider"
	ErrDevSubjectProviderFailed       = "subject provider request failed"
	ErrDevSettingsNotLoaded           = "assessment settings snapshot is not loaded"

	// Validation messages
	ErrDevValidationFailed         = "validation failed"
	ErrDevURLParamValidationFailed = "parameter %s validation failed"
	ErrDevMissingRequestID         = "request id not found in context"
	ErrDevReadBody                 = "failed to read request body"

	// Database messages
	ErrDevDBFailedToInsertDocument   = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument   = "failed to update document into database"
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToIterateDocuments = "failed when iterating documents from database"
	ErrDevDBFailedToCreateIndex      = "failed to create index on collection %s"

	// Minio messages
	ErrDevMinioFailedToCreateObject = "failed to create object into minio storage with bucket name '%s'"

	// Redis messages
	ErrDevRedisSetData    = "failed to SET data into redis"
	ErrDevRedisGetData    = "failed to GET data from redis"
	ErrDevRedisDeleteData = "failed to DELETE data from redis"
	ErrDevRedisIncrement  = "failed to INCR data in redis"

	// RabbitMQ messages
	ErrDevRabbitMQPublishMessage = "failed to publish message into rabbitmq queue '%s'"

	// Server messages
	ErrDevServerProcess          = "server failed to process something related to machine system"
	ErrDevServerDeadlineExceeded = "deadline exceeded"
	ErrDevRequestLimitExceeded   = "request limit exceeded"
)

const (
	ErrEnvParsing = "Error parsing %s: %v, will use default value"
)
