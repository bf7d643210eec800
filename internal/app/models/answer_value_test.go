package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValueUnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected AnswerValue
	}{
		{name: "Boolean", input: `true`, expected: BoolValue(true)},
		{name: "String", input: `"yes"`, expected: StringValue("yes")},
		{name: "String True Stays String", input: `"true"`, expected: StringValue("true")},
		{name: "Integer", input: `3`, expected: IntValue(3)},
		{name: "Negative Integer", input: `-2`, expected: IntValue(-2)},
		{name: "Null", input: `null`, expected: AnswerValue{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var value AnswerValue
			require.NoError(t, json.Unmarshal([]byte(tc.input), &value))
			assert.Equal(t, tc.expected.Key(), value.Key())
			assert.Equal(t, tc.expected.Kind, value.Kind)
		})
	}

	t.Run("Fractional Number Rejected", func(t *testing.T) {
		var value AnswerValue
		assert.Error(t, json.Unmarshal([]byte(`1.5`), &value))
	})
}

func TestAnswerValueMarshalJSON(t *testing.T) {
	payload := struct {
		Values []AnswerValue `json:"values"`
	}{
		Values: []AnswerValue{BoolValue(false), StringValue("no"), IntValue(2), {}},
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"values":[false,"no",2,null]}`, string(data))
}

func TestAnswerValueKeyDistinguishesKinds(t *testing.T) {
	assert.NotEqual(t, BoolValue(true).Key(), StringValue("true").Key(), "boolean and string must not collide")
	assert.NotEqual(t, IntValue(1).Key(), StringValue("1").Key(), "integer and string must not collide")
	assert.True(t, StringValue("yes").Equal(StringValue("yes")))
	assert.Equal(t, "", AnswerValue{}.Key(), "zero value has no key")
}

func TestAnswerValueConform(t *testing.T) {
	t.Run("Boolean Accepts Bool Only", func(t *testing.T) {
		conformed, err := BoolValue(true).Conform(InputTypeBoolean)
		require.NoError(t, err)
		assert.True(t, *conformed.Bool)

		_, err = StringValue("true").Conform(InputTypeBoolean)
		assert.ErrorIs(t, err, ErrValueKindMismatch)
	})

	t.Run("Select Accepts String Only", func(t *testing.T) {
		_, err := StringValue("medium").Conform(InputTypeSelect)
		assert.NoError(t, err)

		_, err = IntValue(1).Conform(InputTypeSelect)
		assert.ErrorIs(t, err, ErrValueKindMismatch)
	})

	t.Run("Scale Range", func(t *testing.T) {
		_, err := IntValue(3).Conform(InputTypeScale03)
		assert.NoError(t, err)

		_, err = IntValue(4).Conform(InputTypeScale03)
		assert.ErrorIs(t, err, ErrValueOutOfRange)

		_, err = IntValue(-1).Conform(InputTypeScale03)
		assert.ErrorIs(t, err, ErrValueOutOfRange)
	})

	t.Run("Date Parses Strings", func(t *testing.T) {
		conformed, err := StringValue("2024-01-31").Conform(InputTypeDate)
		require.NoError(t, err)
		assert.Equal(t, ValueKindDate, conformed.Kind)
		assert.Equal(t, "2024-01-31", conformed.String())

		_, err = StringValue("31/01/2024").Conform(InputTypeDate)
		assert.ErrorIs(t, err, ErrValueKindMismatch)
	})

	t.Run("Zero Value Passes Through", func(t *testing.T) {
		conformed, err := AnswerValue{}.Conform(InputTypeInteger)
		require.NoError(t, err)
		assert.True(t, conformed.IsZero())
	})
}

func TestQuestionFindOption(t *testing.T) {
	question := Question{
		Tag:       "employed",
		InputType: InputTypeBoolean,
		Options: []QuestionOption{
			{Label: "Yes", Value: BoolValue(true), Score: 0},
			{Label: "No", Value: BoolValue(false), Score: 2},
		},
	}

	option, ok := question.FindOption(BoolValue(false))
	require.True(t, ok)
	assert.Equal(t, 2, option.Score)

	_, ok = question.FindOption(StringValue("false"))
	assert.False(t, ok, "string false must not match boolean option")

	_, ok = question.FindOption(AnswerValue{})
	assert.False(t, ok, "unanswered never matches")
}

func TestAssessmentSessionScoringAnswers(t *testing.T) {
	session := AssessmentSession{
		Answers: map[string]AnswerEntry{
			"q1":  {Value: StringValue("yes")},
			"q2":  {Value: AnswerValue{}},
			"age": {Value: IntValue(10)},
		},
		StaticValues: map[string]AnswerValue{"age": IntValue(42)},
	}

	merged := session.ScoringAnswers()

	assert.Len(t, merged, 2)
	assert.Equal(t, "s:yes", merged["q1"].Key())
	assert.Equal(t, "i:42", merged["age"].Key(), "static values win")
}
