// Package scoring turns recorded answers into a total score, per-category
// subtotals and a risk level. Every function here is pure.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
)

var (
	ErrEmptyRangeLabel   = errors.New("scoring range label must not be empty")
	ErrRangeMinAboveMax  = errors.New("scoring range min must not be greater than max")
	ErrDuplicateRangeTag = errors.New("scoring range labels must be unique")
)

type Result struct {
	TotalScore     int            `json:"total_score"`
	CategoryScores map[string]int `json:"category_scores"`
	Details        map[string]int `json:"details"`
	RiskLevel      string         `json:"risk_level"`
}

// DefaultMatrix applies to assessment types without a configured matrix.
func DefaultMatrix() []models.ScoringRange {
	return []models.ScoringRange{
		{Label: constvars.DefaultRiskLevelLow, Min: math.MinInt, Max: constvars.DefaultMediumThreshold - 1},
		{Label: constvars.DefaultRiskLevelMedium, Min: constvars.DefaultMediumThreshold, Max: constvars.DefaultHighThreshold - 1},
		{Label: constvars.DefaultRiskLevelHigh, Min: constvars.DefaultHighThreshold, Max: math.MaxInt},
	}
}

func EffectiveMatrix(matrix []models.ScoringRange) []models.ScoringRange {
	if len(matrix) == 0 {
		return DefaultMatrix()
	}
	return matrix
}

// ResolveLevel returns the label of the first range containing total, in list
// order, or Unclassified when none does.
func ResolveLevel(matrix []models.ScoringRange, total int) string {
	for _, scoringRange := range EffectiveMatrix(matrix) {
		if scoringRange.Contains(total) {
			return scoringRange.Label
		}
	}
	return constvars.RiskLevelUnclassified
}

// Levels lists the distinct labels an officer may choose as final level.
func Levels(matrix []models.ScoringRange) []string {
	effective := EffectiveMatrix(matrix)
	levels := make([]string, 0, len(effective))
	seen := make(map[string]bool, len(effective))
	for _, scoringRange := range effective {
		if seen[scoringRange.Label] {
			continue
		}
		seen[scoringRange.Label] = true
		levels = append(levels, scoringRange.Label)
	}
	return levels
}

func HasLevel(matrix []models.ScoringRange, level string) bool {
	for _, each := range Levels(matrix) {
		if each == level {
			return true
		}
	}
	return false
}

// Evaluate scores answers against the given questions. Only boolean, select
// and scale questions with options contribute; an answer matches an option by
// canonical value key. Unanswered questions add zero.
func Evaluate(answers map[string]models.AnswerValue, questions []models.Question, matrix []models.ScoringRange) Result {
	result := Result{
		CategoryScores: make(map[string]int),
		Details:        make(map[string]int),
	}

	for _, question := range questions {
		if !question.IsScorable() {
			continue
		}
		if _, ok := result.CategoryScores[question.Category]; !ok {
			result.CategoryScores[question.Category] = 0
		}

		answer, ok := answers[question.Tag]
		if !ok || answer.IsZero() {
			continue
		}
		option, ok := question.FindOption(answer)
		if !ok {
			continue
		}

		result.TotalScore += option.Score
		result.CategoryScores[question.Category] += option.Score
		result.Details[question.Tag] = option.Score
	}

	result.RiskLevel = ResolveLevel(matrix, result.TotalScore)
	return result
}

// ValidateMatrix rejects ranges an evaluator could never use consistently.
func ValidateMatrix(matrix []models.ScoringRange) error {
	seen := make(map[string]bool, len(matrix))
	for _, scoringRange := range matrix {
		if scoringRange.Label == "" {
			return ErrEmptyRangeLabel
		}
		if scoringRange.Min > scoringRange.Max {
			return fmt.Errorf("%w: %s", ErrRangeMinAboveMax, scoringRange.Label)
		}
		if seen[scoringRange.Label] {
			return fmt.Errorf("%w: %s", ErrDuplicateRangeTag, scoringRange.Label)
		}
		seen[scoringRange.Label] = true
	}
	return nil
}

// FindOverlaps reports overlapping or out of order ranges. Overlaps are legal
// and resolve to the earlier range, so these are warnings for administrators.
func FindOverlaps(matrix []models.ScoringRange) []string {
	var warnings []string
	for i := 0; i < len(matrix); i++ {
		for j := i + 1; j < len(matrix); j++ {
			first, second := matrix[i], matrix[j]
			if first.Min <= second.Max && second.Min <= first.Max {
				warnings = append(warnings, fmt.Sprintf(
					"ranges %q [%d, %d] and %q [%d, %d] overlap, %q wins where both match",
					first.Label, first.Min, first.Max, second.Label, second.Min, second.Max, first.Label,
				))
			}
		}
		if i > 0 && matrix[i].Min < matrix[i-1].Min {
			warnings = append(warnings, fmt.Sprintf(
				"range %q starts at %d, below the previous range %q",
				matrix[i].Label, matrix[i].Min, matrix[i-1].Label,
			))
		}
	}
	return warnings
}
