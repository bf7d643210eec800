package assessment_sessions

import (
	"context"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AssessmentSessionMongoRepository struct {
	Collection *mongo.Collection
}

func NewAssessmentSessionMongoRepository(db *mongo.Client, dbName string) contracts.AssessmentSessionRepository {
	return &AssessmentSessionMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionSessions),
	}
}

func (r *AssessmentSessionMongoRepository) CreateSession(ctx context.Context, session *models.AssessmentSession) error {
	_, err := r.Collection.InsertOne(ctx, session)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *AssessmentSessionMongoRepository) FindByID(ctx context.Context, sessionID string) (*models.AssessmentSession, error) {
	var session models.AssessmentSession
	err := r.Collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &session, nil
}

func (r *AssessmentSessionMongoRepository) FindBySubjectID(ctx context.Context, subjectID string) ([]models.AssessmentSession, error) {
	return r.find(ctx, bson.M{"subjectId": subjectID})
}

func (r *AssessmentSessionMongoRepository) FindBySubjectIDSince(ctx context.Context, subjectID string, since time.Time) ([]models.AssessmentSession, error) {
	return r.find(ctx, bson.M{
		"subjectId":   subjectID,
		"dateStarted": bson.M{"$gte": since},
	})
}

func (r *AssessmentSessionMongoRepository) find(ctx context.Context, filter bson.M) ([]models.AssessmentSession, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "dateStarted", Value: -1},
		{Key: "createdAt", Value: -1},
	})

	cursor, err := r.Collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	sessions := make([]models.AssessmentSession, 0)
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return sessions, nil
}

// SaveAnswer is a single conditional update so a stale autosave can never
// overwrite a newer one, and nothing lands on a submitted session.
func (r *AssessmentSessionMongoRepository) SaveAnswer(ctx context.Context, sessionID, tag string, entry models.AnswerEntry) (bool, error) {
	answerField := "answers." + tag
	filter := saveAnswerFilter(sessionID, tag, entry.Sequence)

	update := bson.M{
		"$set": bson.M{
			answerField: entry,
			"status":    models.SessionStatusInProgress,
			"updatedAt": entry.UpdatedAt,
		},
	}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}

// saveAnswerFilter matches the session only while it is not submitted and,
// for a sequenced write, only while the stored answer is older or absent.
func saveAnswerFilter(sessionID, tag string, sequence int64) bson.M {
	answerField := "answers." + tag
	filter := bson.M{
		"_id":    sessionID,
		"status": bson.M{"$ne": models.SessionStatusSubmitted},
	}
	if sequence > 0 {
		filter["$or"] = []bson.M{
			{answerField: bson.M{"$exists": false}},
			{answerField + ".sequence": bson.M{"$lt": sequence}},
		}
	}
	return filter
}

func (r *AssessmentSessionMongoRepository) SaveCalculation(ctx context.Context, sessionID string, calculation *models.SessionCalculation) (bool, error) {
	filter := bson.M{
		"_id":    sessionID,
		"status": bson.M{"$ne": models.SessionStatusSubmitted},
	}
	update := bson.M{
		"$set": bson.M{
			"totalScore":          calculation.TotalScore,
			"categoryScores":      calculation.CategoryScores,
			"scoreDetails":        calculation.ScoreDetails,
			"calculatedRiskLevel": calculation.RiskLevel,
			"calculatedAt":        calculation.CalculatedAt,
			"status":              models.SessionStatusCalculated,
			"updatedAt":           calculation.CalculatedAt,
		},
	}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}

func (r *AssessmentSessionMongoRepository) MarkSubmitted(ctx context.Context, sessionID string, submission *models.SessionSubmission) (bool, error) {
	filter := bson.M{
		"_id":    sessionID,
		"status": models.SessionStatusCalculated,
	}
	update := bson.M{
		"$set": bson.M{
			"finalRiskLevel": submission.FinalRiskLevel,
			"overrideReason": submission.OverrideReason,
			"submittedAt":    submission.SubmittedAt,
			"status":         models.SessionStatusSubmitted,
			"updatedAt":      submission.SubmittedAt,
		},
	}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}

func (r *AssessmentSessionMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "subjectId", Value: 1},
			{Key: "dateStarted", Value: -1},
		},
	})
	if err != nil {
		return exceptions.ErrMongoDBCreateIndex(err, constvars.MongoCollectionSessions)
	}
	return nil
}
