package responses

import "supervision-service/internal/app/models"

type SchemaQuestion struct {
	Tag         string                  `json:"tag"`
	Text        string                  `json:"text"`
	InputType   models.InputType        `json:"input_type"`
	Category    string                  `json:"category"`
	SourceType  models.SourceType       `json:"source_type"`
	Options     []models.QuestionOption `json:"options"`
	ScoringNote string                  `json:"scoring_note,omitempty"`
	Value       models.AnswerValue      `json:"value"`
	IsImported  bool                    `json:"is_imported"`
	IsDisabled  bool                    `json:"is_disabled"`
	SourceNote  string                  `json:"source_note,omitempty"`
}

type SchemaSection struct {
	Category  string           `json:"category"`
	Questions []SchemaQuestion `json:"questions"`
}

type StartSession struct {
	Session *models.AssessmentSession `json:"session"`
	Schema  []SchemaSection           `json:"schema"`
}

type SaveAnswer struct {
	SessionID string               `json:"session_id"`
	Tag       string               `json:"tag"`
	Applied   bool                 `json:"applied"`
	Status    models.SessionStatus `json:"status"`
	Sequence  int64                `json:"sequence"`
}

type ScoreResult struct {
	TotalScore     int            `json:"total_score"`
	CategoryScores map[string]int `json:"category_scores"`
	Details        map[string]int `json:"details"`
	RiskLevel      string         `json:"risk_level"`
	Levels         []string       `json:"levels"`
}

type CalculateSession struct {
	SessionID string               `json:"session_id"`
	Status    models.SessionStatus `json:"status"`
	ScoreResult
}

type UpdateScoringMatrix struct {
	AssessmentType *models.AssessmentType `json:"assessment_type"`
	Created        bool                   `json:"created"`
	Warnings       []string               `json:"warnings,omitempty"`
}
