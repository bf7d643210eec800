package questions

import (
	"strings"
	"supervision-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadQuestionsCSV(t *testing.T) {
	t.Run("Generates options and defaults", func(t *testing.T) {
		input := "universal_tag,question_text,input_type,source_type,assessments,category,scoring_note\n" +
			"has_job,Is the subject employed?,boolean,dynamic,\"RANSAT, ORAS\",Employment,Yes adds one\n" +
			"peer_influence,Negative peer influence,scale_0_3,dynamic,ORAS,,\n" +
			"prior_arrests,Number of prior arrests,integer,static,RANSAT,Criminal History,\n"

		result, err := ReadQuestionsCSV(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, result, 3)

		assert.Equal(t, "has_job", result[0].Tag)
		assert.Equal(t, []string{"RANSAT", "ORAS"}, result[0].ApplicableTools)
		require.Len(t, result[0].Options, 2)
		assert.True(t, result[0].Options[0].Value.Equal(models.BoolValue(true)))
		assert.Equal(t, 1, result[0].Options[0].Score)

		assert.Equal(t, "General", result[1].Category)
		assert.Len(t, result[1].Options, 4)
		assert.Equal(t, 3, result[1].Options[3].Score)

		assert.Equal(t, models.SourceTypeStatic, result[2].SourceType)
		assert.Nil(t, result[2].Options)
	})

	t.Run("Missing column", func(t *testing.T) {
		_, err := ReadQuestionsCSV(strings.NewReader("universal_tag,question_text\nhas_job,Employed?\n"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing column input_type")
	})

	t.Run("Ragged row", func(t *testing.T) {
		input := "universal_tag,question_text,input_type,source_type,assessments,scoring_note\n" +
			"has_job,Employed?,boolean\n"

		_, err := ReadQuestionsCSV(strings.NewReader(input))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot parse CSV row 2")
	})
}
