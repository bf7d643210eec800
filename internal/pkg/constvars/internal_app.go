package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_ADMIN_KEY                ContextKey = "is_admin"
)

const (
	REQUEST_ID_PREFIX = "SUPV_SVC_"
)

const (
	MongoCollectionQuestions       = "risk_questions"
	MongoCollectionAssessmentTypes = "assessment_types"
	MongoCollectionSessions        = "risk_assessments"
)

const (
	RedisKeySettingsVersion    = "assessment:settings:version"
	RedisKeySessionLockPrefix  = "assessment:session:lock:"
	RedisKeySubjectCachePrefix = "assessment:subject:"
)

const (
	SessionArchiveObjectFormat   = "%s/%s.json"
	ImportedSourceNoteFormat     = "Imported from Assessment on %s"
	EventTypeAssessmentSubmitted = "assessment.submitted"
)

const (
	DefaultLookbackDays          = 30
	DefaultRiskLevelLow          = "Low"
	DefaultRiskLevelMedium       = "Medium"
	DefaultRiskLevelHigh         = "High"
	DefaultMediumThreshold       = 8
	DefaultHighThreshold         = 15
	RiskLevelUnclassified        = "Unclassified"
	SubjectDataCacheTTLInSeconds = 60
)
