package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	GetQuestionsSuccessMessage         = "get questions successfully"
	CreateQuestionSuccessMessage       = "question created successfully"
	UpdateQuestionSuccessMessage       = "question updated successfully"
	GetAssessmentTypesSuccessMessage   = "get assessment types successfully"
	CreateAssessmentTypeSuccessMessage = "assessment type created successfully"
	UpdateScoringMatrixSuccessMessage  = "scoring matrix updated successfully"
	CreateScoringMatrixSuccessMessage  = "scoring matrix created successfully"
	EvaluateScoreSuccessMessage        = "score evaluated successfully"
	GetSchemaSuccessMessage            = "get assessment schema successfully"
	StartSessionSuccessMessage         = "assessment session started successfully"
	GetSessionSuccessMessage           = "get assessment session successfully"
	GetSessionsSuccessMessage          = "get assessment sessions successfully"
	SaveAnswerSuccessMessage           = "answer saved successfully"
	SaveAnswerStaleMessage             = "answer ignored, a newer value is already stored"
	CalculateSessionSuccessMessage     = "assessment calculated successfully"
	SubmitSessionSuccessMessage        = "assessment submitted successfully"
	RefreshSettingsSuccessMessage      = "assessment settings refreshed successfully"
)
