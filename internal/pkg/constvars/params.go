package constvars

const (
	URLParamQuestionTag = "tag"
	URLParamTypeName    = "name"
	URLParamSessionID   = "session_id"
)

const (
	URLQueryParamSubjectID      = "subject_id"
	URLQueryParamAssessmentType = "assessment_type"
	URLQueryParamTool           = "tool"
)
