package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type ScoringRange struct {
	Label string `json:"label" bson:"label"`
	Min   int    `json:"min" bson:"min"`
	Max   int    `json:"max" bson:"max"`
}

func (r ScoringRange) Contains(score int) bool {
	return r.Min <= score && score <= r.Max
}

type AssessmentType struct {
	ID            primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description" bson:"description"`
	ScoringMatrix []ScoringRange     `json:"scoring_matrix" bson:"scoringMatrix"`
	// Registered is false for tool names only referenced by question tags.
	Registered bool `json:"registered" bson:"registered"`
	TimeModel  `bson:",inline"`
}
