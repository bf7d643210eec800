package models

import "time"

type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "InProgress"
	SessionStatusCalculated SessionStatus = "Calculated"
	SessionStatusSubmitted  SessionStatus = "Submitted"
)

type AnswerEntry struct {
	Value AnswerValue `json:"value" bson:"value"`
	// Sequence is the per-tag write stamp supplied by the client, 0 when unset.
	Sequence   int64     `json:"sequence" bson:"sequence"`
	Imported   bool      `json:"imported" bson:"imported"`
	SourceNote string    `json:"source_note,omitempty" bson:"sourceNote,omitempty"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updatedAt"`
}

type AssessmentSession struct {
	ID                  string                 `json:"id" bson:"_id"`
	SubjectID           string                 `json:"subject_id" bson:"subjectId"`
	AssessmentTypeName  string                 `json:"assessment_type" bson:"assessmentType"`
	DateStarted         time.Time              `json:"date_started" bson:"dateStarted"`
	Status              SessionStatus          `json:"status" bson:"status"`
	Answers             map[string]AnswerEntry `json:"answers" bson:"answers"`
	StaticValues        map[string]AnswerValue `json:"static_values,omitempty" bson:"staticValues,omitempty"`
	TotalScore          *int                   `json:"total_score" bson:"totalScore"`
	CategoryScores      map[string]int         `json:"category_scores,omitempty" bson:"categoryScores,omitempty"`
	ScoreDetails        map[string]int         `json:"score_details,omitempty" bson:"scoreDetails,omitempty"`
	CalculatedRiskLevel *string                `json:"calculated_risk_level" bson:"calculatedRiskLevel"`
	FinalRiskLevel      *string                `json:"final_risk_level" bson:"finalRiskLevel"`
	OverrideReason      *string                `json:"override_reason" bson:"overrideReason"`
	CalculatedAt        *time.Time             `json:"calculated_at,omitempty" bson:"calculatedAt,omitempty"`
	SubmittedAt         *time.Time             `json:"submitted_at,omitempty" bson:"submittedAt,omitempty"`
	TimeModel           `bson:",inline"`
}

func (s *AssessmentSession) IsSubmitted() bool {
	return s.Status == SessionStatusSubmitted
}

func (s *AssessmentSession) IsOverridden() bool {
	if s.FinalRiskLevel == nil || s.CalculatedRiskLevel == nil {
		return false
	}
	return *s.FinalRiskLevel != *s.CalculatedRiskLevel
}

// ScoringAnswers merges officer answers with the static values imported at
// session start. Static values win because they cannot be edited.
func (s *AssessmentSession) ScoringAnswers() map[string]AnswerValue {
	merged := make(map[string]AnswerValue, len(s.Answers)+len(s.StaticValues))
	for tag, entry := range s.Answers {
		if entry.Value.IsZero() {
			continue
		}
		merged[tag] = entry.Value
	}
	for tag, value := range s.StaticValues {
		if value.IsZero() {
			continue
		}
		merged[tag] = value
	}
	return merged
}

type SessionCalculation struct {
	TotalScore     int
	CategoryScores map[string]int
	ScoreDetails   map[string]int
	RiskLevel      string
	CalculatedAt   time.Time
}

type SessionSubmission struct {
	FinalRiskLevel string
	OverrideReason *string
	SubmittedAt    time.Time
}

type AssessmentSubmittedEvent struct {
	EventType           string    `json:"event_type"`
	SessionID           string    `json:"session_id"`
	SubjectID           string    `json:"subject_id"`
	AssessmentType      string    `json:"assessment_type"`
	TotalScore          int       `json:"total_score"`
	CalculatedRiskLevel string    `json:"calculated_risk_level"`
	FinalRiskLevel      string    `json:"final_risk_level"`
	Overridden          bool      `json:"overridden"`
	OverrideReason      string    `json:"override_reason,omitempty"`
	SubmittedAt         time.Time `json:"submitted_at"`
}
