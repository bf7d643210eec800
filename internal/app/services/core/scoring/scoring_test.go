package scoring

import (
	"math"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yesNoQuestion(tag, category string, yesScore, noScore int) models.Question {
	return models.Question{
		Tag:             tag,
		Category:        category,
		InputType:       models.InputTypeSelect,
		SourceType:      models.SourceTypeDynamic,
		ApplicableTools: []string{"ORAS"},
		Options: []models.QuestionOption{
			{Label: "Yes", Value: models.StringValue("yes"), Score: yesScore},
			{Label: "No", Value: models.StringValue("no"), Score: noScore},
		},
	}
}

func TestEvaluateBasicScoring(t *testing.T) {
	questions := []models.Question{yesNoQuestion("q1", "A", 5, 0)}
	answers := map[string]models.AnswerValue{"q1": models.StringValue("yes")}
	matrix := []models.ScoringRange{
		{Label: "Low", Min: 0, Max: 4},
		{Label: "High", Min: 5, Max: 10},
	}

	result := Evaluate(answers, questions, matrix)

	assert.Equal(t, 5, result.TotalScore)
	assert.Equal(t, map[string]int{"A": 5}, result.CategoryScores)
	assert.Equal(t, "High", result.RiskLevel)
	assert.Equal(t, map[string]int{"q1": 5}, result.Details)
}

func TestEvaluateDeterministic(t *testing.T) {
	questions := []models.Question{
		yesNoQuestion("q1", "A", 3, 0),
		yesNoQuestion("q2", "B", 4, 1),
		yesNoQuestion("q3", "A", 2, 0),
	}
	answers := map[string]models.AnswerValue{
		"q1": models.StringValue("yes"),
		"q2": models.StringValue("no"),
		"q3": models.StringValue("yes"),
	}
	matrix := []models.ScoringRange{{Label: "Low", Min: 0, Max: 5}, {Label: "High", Min: 6, Max: 20}}

	first := Evaluate(answers, questions, matrix)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Evaluate(answers, questions, matrix), "evaluation must not vary between calls")
	}
	assert.Equal(t, 6, first.TotalScore)
	assert.Equal(t, map[string]int{"A": 5, "B": 1}, first.CategoryScores)
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	matrix := []models.ScoringRange{
		{Label: "A", Min: 0, Max: 20},
		{Label: "B", Min: 10, Max: 30},
	}

	assert.Equal(t, "A", ResolveLevel(matrix, 15))
	assert.Equal(t, "B", ResolveLevel(matrix, 25))
}

func TestEvaluateNoMatchIsUnclassified(t *testing.T) {
	questions := []models.Question{yesNoQuestion("q1", "A", 50, 0)}
	answers := map[string]models.AnswerValue{"q1": models.StringValue("yes")}
	matrix := []models.ScoringRange{{Label: "Low", Min: 0, Max: 10}}

	result := Evaluate(answers, questions, matrix)

	assert.Equal(t, 50, result.TotalScore)
	assert.Equal(t, constvars.RiskLevelUnclassified, result.RiskLevel)
}

func TestEvaluateUnansweredNeutral(t *testing.T) {
	questions := []models.Question{
		yesNoQuestion("q1", "A", 5, 0),
		yesNoQuestion("q2", "B", 7, 0),
	}
	answers := map[string]models.AnswerValue{"q1": models.StringValue("yes")}

	result := Evaluate(answers, questions, nil)

	assert.Equal(t, 5, result.TotalScore)
	assert.Equal(t, 0, result.CategoryScores["B"], "unanswered category subtotal stays zero")
	_, scored := result.Details["q2"]
	assert.False(t, scored, "unanswered question has no detail")
}

func TestEvaluateIgnoresUnscorableInputs(t *testing.T) {
	questions := []models.Question{
		{Tag: "age", Category: "Demographics", InputType: models.InputTypeInteger},
		{Tag: "release_date", Category: "Demographics", InputType: models.InputTypeDate},
		{Tag: "notes_flag", Category: "Other", InputType: models.InputTypeBoolean},
		yesNoQuestion("q1", "A", 1, 0),
	}
	answers := map[string]models.AnswerValue{
		"age":          models.IntValue(19),
		"release_date": models.StringValue("2024-01-01"),
		"notes_flag":   models.BoolValue(true),
		"q1":           models.StringValue("yes"),
	}

	result := Evaluate(answers, questions, nil)

	assert.Equal(t, 1, result.TotalScore)
	assert.NotContains(t, result.CategoryScores, "Demographics")
	assert.NotContains(t, result.CategoryScores, "Other", "boolean without options is not scored")
}

func TestEvaluateTypedMatching(t *testing.T) {
	questions := []models.Question{
		{
			Tag:       "employed",
			Category:  "Employment",
			InputType: models.InputTypeBoolean,
			Options: []models.QuestionOption{
				{Label: "Yes", Value: models.BoolValue(true), Score: -1},
				{Label: "No", Value: models.BoolValue(false), Score: 2},
			},
		},
		{
			Tag:       "peers",
			Category:  "Peers",
			InputType: models.InputTypeScale03,
			Options: []models.QuestionOption{
				{Label: "0", Value: models.IntValue(0), Score: 0},
				{Label: "3", Value: models.IntValue(3), Score: 3},
			},
		},
	}

	t.Run("String True Does Not Match Boolean Option", func(t *testing.T) {
		result := Evaluate(map[string]models.AnswerValue{"employed": models.StringValue("true")}, questions, nil)
		assert.Equal(t, 0, result.TotalScore)
	})

	t.Run("Negative Scores Count", func(t *testing.T) {
		result := Evaluate(map[string]models.AnswerValue{
			"employed": models.BoolValue(true),
			"peers":    models.IntValue(3),
		}, questions, nil)
		assert.Equal(t, 2, result.TotalScore)
		assert.Equal(t, -1, result.CategoryScores["Employment"])
	})
}

func TestDefaultMatrix(t *testing.T) {
	testCases := []struct {
		total    int
		expected string
	}{
		{total: -3, expected: constvars.DefaultRiskLevelLow},
		{total: 0, expected: constvars.DefaultRiskLevelLow},
		{total: 7, expected: constvars.DefaultRiskLevelLow},
		{total: 8, expected: constvars.DefaultRiskLevelMedium},
		{total: 14, expected: constvars.DefaultRiskLevelMedium},
		{total: 15, expected: constvars.DefaultRiskLevelHigh},
		{total: math.MaxInt, expected: constvars.DefaultRiskLevelHigh},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ResolveLevel(nil, tc.total), "total %d", tc.total)
	}
	assert.Equal(t, []string{"Low", "Medium", "High"}, Levels(nil))
}

func TestLevels(t *testing.T) {
	matrix := []models.ScoringRange{
		{Label: "Low", Min: 0, Max: 4},
		{Label: "High", Min: 5, Max: 9},
		{Label: "Low", Min: 10, Max: 12},
	}

	assert.Equal(t, []string{"Low", "High"}, Levels(matrix))
	assert.True(t, HasLevel(matrix, "High"))
	assert.False(t, HasLevel(matrix, "Medium"))
}

func TestValidateMatrix(t *testing.T) {
	require.NoError(t, ValidateMatrix(nil))
	require.NoError(t, ValidateMatrix([]models.ScoringRange{{Label: "Low", Min: 0, Max: 0}}))

	assert.ErrorIs(t, ValidateMatrix([]models.ScoringRange{{Label: "", Min: 0, Max: 1}}), ErrEmptyRangeLabel)
	assert.ErrorIs(t, ValidateMatrix([]models.ScoringRange{{Label: "Low", Min: 5, Max: 1}}), ErrRangeMinAboveMax)
	assert.ErrorIs(t, ValidateMatrix([]models.ScoringRange{
		{Label: "Low", Min: 0, Max: 1},
		{Label: "Low", Min: 2, Max: 3},
	}), ErrDuplicateRangeTag)
}

func TestFindOverlaps(t *testing.T) {
	t.Run("Disjoint Ascending", func(t *testing.T) {
		warnings := FindOverlaps([]models.ScoringRange{
			{Label: "Low", Min: 0, Max: 4},
			{Label: "High", Min: 5, Max: 10},
		})
		assert.Empty(t, warnings)
	})

	t.Run("Overlap Reported", func(t *testing.T) {
		warnings := FindOverlaps([]models.ScoringRange{
			{Label: "A", Min: 0, Max: 20},
			{Label: "B", Min: 10, Max: 30},
		})
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], `"A" wins`)
	})

	t.Run("Descending Order Reported", func(t *testing.T) {
		warnings := FindOverlaps([]models.ScoringRange{
			{Label: "High", Min: 5, Max: 10},
			{Label: "Low", Min: 0, Max: 4},
		})
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "below the previous range")
	})
}
