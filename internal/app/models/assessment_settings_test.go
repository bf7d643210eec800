package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeAssessmentTypes(t *testing.T) {
	registered := []AssessmentType{
		{Name: "ORAS", ScoringMatrix: []ScoringRange{{Label: "Low", Min: 0, Max: 5}}},
	}
	questions := []Question{
		{Tag: "q1", ApplicableTools: []string{"ORAS", "STATIC-99"}},
		{Tag: "q2", ApplicableTools: []string{"LSI-R", "STATIC-99"}},
	}

	merged := MergeAssessmentTypes(registered, questions)

	require.Len(t, merged, 3)
	assert.Equal(t, "LSI-R", merged[0].Name)
	assert.False(t, merged[0].Registered)
	assert.Equal(t, "ORAS", merged[1].Name)
	assert.True(t, merged[1].Registered)
	assert.Len(t, merged[1].ScoringMatrix, 1)
	assert.Equal(t, "STATIC-99", merged[2].Name)
}

func TestAssessmentSettingsLookups(t *testing.T) {
	questions := []Question{
		{Tag: "q2", Category: "B", ApplicableTools: []string{"ORAS"}},
		{Tag: "q1", Category: "A", ApplicableTools: []string{"ORAS-CST"}},
		{Tag: "q3", Category: "A", ApplicableTools: []string{"ORAS", "ORAS-CST"}},
	}
	settings := NewAssessmentSettings("4", questions, nil)

	t.Run("Exact Tool Match In Catalog Order", func(t *testing.T) {
		forTool := settings.QuestionsFor("ORAS")
		require.Len(t, forTool, 2)
		assert.Equal(t, "q2", forTool[0].Tag)
		assert.Equal(t, "q3", forTool[1].Tag)
	})

	t.Run("Find Question", func(t *testing.T) {
		question, ok := settings.FindQuestion("q1")
		require.True(t, ok)
		assert.Equal(t, "A", question.Category)

		_, ok = settings.FindQuestion("missing")
		assert.False(t, ok)
	})

	t.Run("Implicit Types Are Findable", func(t *testing.T) {
		assessmentType, ok := settings.FindType("ORAS-CST")
		require.True(t, ok)
		assert.False(t, assessmentType.Registered)

		_, ok = settings.FindType("UNKNOWN")
		assert.False(t, ok)
	})
}
