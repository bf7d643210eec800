package assessment_sessions

import (
	"supervision-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSaveAnswerFilter(t *testing.T) {
	t.Run("Sequenced write only replaces older answers", func(t *testing.T) {
		filter := saveAnswerFilter("s1", "has_job", 7)

		assert.Equal(t, bson.M{
			"_id":    "s1",
			"status": bson.M{"$ne": models.SessionStatusSubmitted},
			"$or": []bson.M{
				{"answers.has_job": bson.M{"$exists": false}},
				{"answers.has_job.sequence": bson.M{"$lt": int64(7)}},
			},
		}, filter)
	})

	t.Run("Unsequenced write keeps last arrival", func(t *testing.T) {
		filter := saveAnswerFilter("s1", "has_job", 0)

		assert.Equal(t, bson.M{
			"_id":    "s1",
			"status": bson.M{"$ne": models.SessionStatusSubmitted},
		}, filter)
		assert.NotContains(t, filter, "$or")
	})

	t.Run("Submitted sessions never match", func(t *testing.T) {
		filter := saveAnswerFilter("s1", "peer_influence", 1)

		assert.Equal(t, bson.M{"$ne": models.SessionStatusSubmitted}, filter["status"])
	})
}
