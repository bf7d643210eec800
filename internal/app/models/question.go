package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InputType string

const (
	InputTypeBoolean InputType = "boolean"
	InputTypeSelect  InputType = "select"
	InputTypeInteger InputType = "integer"
	InputTypeDate    InputType = "date"
	InputTypeScale03 InputType = "scale_0_3"
)

func (t InputType) IsValid() bool {
	switch t {
	case InputTypeBoolean, InputTypeSelect, InputTypeInteger, InputTypeDate, InputTypeScale03:
		return true
	}
	return false
}

// SupportsOptions reports whether answers of this type are picked from an
// option list and can therefore carry a score.
func (t InputType) SupportsOptions() bool {
	return t == InputTypeBoolean || t == InputTypeSelect || t == InputTypeScale03
}

type SourceType string

const (
	SourceTypeDynamic SourceType = "dynamic"
	SourceTypeStatic  SourceType = "static"
)

func (t SourceType) IsValid() bool {
	return t == SourceTypeDynamic || t == SourceTypeStatic
}

type QuestionOption struct {
	Label string      `json:"label" bson:"label"`
	Value AnswerValue `json:"value" bson:"value"`
	Score int         `json:"score" bson:"score"`
}

type Question struct {
	ID              primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Tag             string             `json:"tag" bson:"tag"`
	Text            string             `json:"text" bson:"text"`
	InputType       InputType          `json:"input_type" bson:"inputType"`
	Category        string             `json:"category" bson:"category"`
	SourceType      SourceType         `json:"source_type" bson:"sourceType"`
	ApplicableTools []string           `json:"applicable_tools" bson:"applicableTools"`
	Options         []QuestionOption   `json:"options" bson:"options"`
	ScoringNote     string             `json:"scoring_note,omitempty" bson:"scoringNote,omitempty"`
	TimeModel       `bson:",inline"`
}

func (q Question) AppliesTo(tool string) bool {
	for _, each := range q.ApplicableTools {
		if each == tool {
			return true
		}
	}
	return false
}

func (q Question) IsStatic() bool {
	return q.SourceType == SourceTypeStatic
}

func (q Question) IsScorable() bool {
	return q.InputType.SupportsOptions() && len(q.Options) > 0
}

func (q Question) FindOption(value AnswerValue) (QuestionOption, bool) {
	key := value.Key()
	if key == "" {
		return QuestionOption{}, false
	}
	for _, option := range q.Options {
		if option.Value.Key() == key {
			return option, true
		}
	}
	return QuestionOption{}, false
}
