package questions

import (
	"context"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/app/models"
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuestionMongoRepository struct {
	Collection *mongo.Collection
}

func NewQuestionMongoRepository(db *mongo.Client, dbName string) contracts.QuestionRepository {
	return &QuestionMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionQuestions),
	}
}

// FindAll returns questions in insertion order, which is the catalog order
// shown to officers. An empty tool returns the whole catalog.
func (r *QuestionMongoRepository) FindAll(ctx context.Context, tool string) ([]models.Question, error) {
	filter := bson.M{}
	if tool != "" {
		filter["applicableTools"] = tool
	}

	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	questions := make([]models.Question, 0)
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return questions, nil
}

func (r *QuestionMongoRepository) FindByTag(ctx context.Context, tag string) (*models.Question, error) {
	var question models.Question
	err := r.Collection.FindOne(ctx, bson.M{"tag": tag}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &question, nil
}

func (r *QuestionMongoRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	_, err := r.Collection.InsertOne(ctx, question)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrQuestionAlreadyExists(err, question.Tag)
		}
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *QuestionMongoRepository) UpdateQuestion(ctx context.Context, question *models.Question) error {
	update := bson.M{
		"$set": bson.M{
			"text":            question.Text,
			"inputType":       question.InputType,
			"category":        question.Category,
			"sourceType":      question.SourceType,
			"applicableTools": question.ApplicableTools,
			"options":         question.Options,
			"scoringNote":     question.ScoringNote,
			"updatedAt":       question.UpdatedAt,
		},
	}

	result, err := r.Collection.UpdateOne(ctx, bson.M{"tag": question.Tag}, update, options.Update().SetUpsert(false))
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrQuestionNotFound(nil, question.Tag)
	}
	return nil
}

func (r *QuestionMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tag", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "applicableTools", Value: 1}},
		},
	})
	if err != nil {
		return exceptions.ErrMongoDBCreateIndex(err, constvars.MongoCollectionQuestions)
	}
	return nil
}
