package constvars

const (
	LoggingRequestIDKey       = "request_id"
	LoggingDataKey            = "data"
	LoggingQueryParamsKey     = "query_params"
	LoggingResponseKey        = "response"
	LoggingRequestKey         = "request"
	LoggingResponseLengthKey  = "response_length"
	LoggingErrorKey           = "error"
	LoggingQuestionTagKey     = "question_tag"
	LoggingAssessmentTypeKey  = "assessment_type"
	LoggingSessionIDKey       = "session_id"
	LoggingSubjectIDKey       = "subject_id"
	LoggingSequenceKey        = "sequence"
	LoggingTotalScoreKey      = "total_score"
	LoggingRiskLevelKey       = "risk_level"
	LoggingFinalRiskLevelKey  = "final_risk_level"
	LoggingSettingsVersionKey = "settings_version"
	LoggingQuestionsCountKey  = "questions_count"
	LoggingTypesCountKey      = "types_count"
	LoggingSessionsCountKey   = "sessions_count"
	LoggingOverlapWarningsKey = "overlap_warnings"
	LoggingQueueNameKey       = "queue_name"
	LoggingBucketNameKey      = "bucket_name"
	LoggingObjectNameKey      = "object_name"
	LoggingPhaseKey           = "phase"
	LoggingStatusCodeKey      = "status_code"
	LoggingLocationsKey       = "locations"
	LoggingMethodKey          = "method"
	LoggingPathKey            = "path"
	LoggingDurationKey        = "duration"
	LoggingLimiterKey         = "limiter_key"
	LoggingClientIPKey        = "client_ip"
	LoggingAppliedKey         = "applied"
	LoggingOverriddenKey      = "overridden"
	LoggingStatusKey          = "status"
)
