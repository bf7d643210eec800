package requests

import "supervision-service/internal/app/models"

type FindAllQuestions struct {
	Tool string
}

type QuestionOption struct {
	Label string             `json:"label" validate:"required"`
	Value models.AnswerValue `json:"value"`
	Score int                `json:"score"`
}

type CreateQuestion struct {
	Tag             string            `json:"tag" validate:"required,max=64,question_tag"`
	Text            string            `json:"text" validate:"required"`
	InputType       models.InputType  `json:"input_type" validate:"required,input_type"`
	Category        string            `json:"category" validate:"required"`
	SourceType      models.SourceType `json:"source_type" validate:"omitempty,source_type"`
	ApplicableTools []string          `json:"applicable_tools" validate:"omitempty,dive,required"`
	Options         []QuestionOption  `json:"options" validate:"omitempty,dive"`
	ScoringNote     string            `json:"scoring_note"`
}

// UpdateQuestion is a patch: nil fields are left untouched. The tag is taken
// from the URL and cannot be changed.
type UpdateQuestion struct {
	Tag             string             `json:"-"`
	Text            *string            `json:"text" validate:"omitempty,min=1"`
	InputType       *models.InputType  `json:"input_type" validate:"omitempty,input_type"`
	Category        *string            `json:"category" validate:"omitempty,min=1"`
	SourceType      *models.SourceType `json:"source_type" validate:"omitempty,source_type"`
	ApplicableTools *[]string          `json:"applicable_tools" validate:"omitempty,dive,required"`
	Options         *[]QuestionOption  `json:"options" validate:"omitempty,dive"`
	ScoringNote     *string            `json:"scoring_note"`
}

type ScoringRange struct {
	Label string `json:"label" validate:"required"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

type CreateAssessmentType struct {
	Name          string         `json:"name" validate:"required,max=128"`
	Description   string         `json:"description"`
	ScoringMatrix []ScoringRange `json:"scoring_matrix" validate:"omitempty,dive"`
}

type UpdateScoringMatrix struct {
	Name          string         `json:"-" validate:"required,max=128"`
	ScoringMatrix []ScoringRange `json:"scoring_matrix" validate:"omitempty,dive"`
}

type EvaluateScore struct {
	Name    string                        `json:"-" validate:"required"`
	Answers map[string]models.AnswerValue `json:"answers"`
}

type ResolveSchema struct {
	AssessmentType string `validate:"required"`
	SubjectID      string `validate:"required"`
}

type StartSession struct {
	SubjectID      string `json:"subject_id" validate:"required"`
	AssessmentType string `json:"assessment_type" validate:"required"`
	// DateStarted uses the YYYY-MM-DD layout, today when empty.
	DateStarted string `json:"date_started" validate:"omitempty,datetime=2006-01-02"`
}

type SaveAnswer struct {
	SessionID string             `json:"-" validate:"required,uuid"`
	Tag       string             `json:"-" validate:"required,question_tag"`
	Value     models.AnswerValue `json:"value"`
	Sequence  int64              `json:"sequence" validate:"gte=0"`
}

type SubmitSession struct {
	SessionID      string `json:"-" validate:"required,uuid"`
	FinalRiskLevel string `json:"final_risk_level"`
	OverrideReason string `json:"override_reason"`
}
