package assessment_types

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

type AssessmentTypeMongoRepository struct {
	Collection *mongo.Collection
}

func NewAssessmentTypeMongoRepository(db *mongo.Client, dbName string) contracts.AssessmentTypeRepository {
	return &AssessmentTypeMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAssessmentTypes),
	}
}

func (r *AssessmentTypeMongoRepository) FindAll(ctx context.Context) ([]models.AssessmentType, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	assessmentTypes := make([]models.AssessmentType, 0)
	if err := cursor.All(ctx, &assessmentTypes); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return assessmentTypes, nil
}

func (r *AssessmentTypeMongoRepository) FindByName(ctx context.Context, name string) (*models.AssessmentType, error) {
	var assessmentType models.AssessmentType
	err := r.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&assessmentType)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &assessmentType, nil
}

func (r *AssessmentTypeMongoRepository) CreateType(ctx context.Context, assessmentType *models.AssessmentType) error {
	assessmentType.Registered = true
	_, err := r.Collection.InsertOne(ctx, assessmentType)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrAssessmentTypeAlreadyExists(err, assessmentType.Name)
		}
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *AssessmentTypeMongoRepository) UpsertScoringMatrix(ctx context.Context, name string, matrix []models.ScoringRange) (*models.AssessmentType, bool, error) {
	now := time.Now()
	if matrix == nil {
		matrix = []models.ScoringRange{}
	}

	update := bson.M{
		"$set": bson.M{
			"scoringMatrix": matrix,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"name":        name,
			"description": "",
			"registered":  true,
			"createdAt":   now,
		},
	}

	result, err := r.Collection.UpdateOne(ctx, bson.M{"name": name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, false, exceptions.ErrMongoDBUpdateDocument(err)
	}

	assessmentType, err := r.FindByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if assessmentType == nil {
		return nil, false, exceptions.ErrAssessmentTypeNotFound(nil, name)
	}
	return assessmentType, result.UpsertedCount > 0, nil
}

func (r *AssessmentTypeMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return exceptions.ErrMongoDBCreateIndex(err, constvars.MongoCollectionAssessmentTypes)
	}
	return nil
}
