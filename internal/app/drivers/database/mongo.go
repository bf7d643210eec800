package database

import (
	"context"
	"fmt"
	"log"
	"supervision-service/internal/app/config"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

func NewMongoDB(driverConfig *config.DriverConfig) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout(driverConfig))
	defer cancel()

	client, err := mongo.Connect(ctx, buildMongoOptions(driverConfig))
	if err != nil {
		log.Fatalf("Failed to connect to mongo database: %s", err.Error())
	}
	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatalf("Failed to ping or test the connection to mongo database: %s", err.Error())
	}
	log.Printf("Successfully connected to mongo database %s", driverConfig.MongoDB.DbName)
	return client
}

// buildMongoOptions asks for majority writes so a submitted session is durable
// before the submission event goes out.
func buildMongoOptions(driverConfig *config.DriverConfig) *options.ClientOptions {
	connectionString := fmt.Sprintf(
		"mongodb://%s:%s@%s:%s",
		driverConfig.MongoDB.Username,
		driverConfig.MongoDB.Password,
		driverConfig.MongoDB.Host,
		driverConfig.MongoDB.Port,
	)
	clientOptions := options.Client().
		ApplyURI(connectionString).
		SetAppName(driverConfig.Logger.ServiceName).
		SetConnectTimeout(mongoConnectTimeout(driverConfig)).
		SetWriteConcern(writeconcern.Majority())
	if driverConfig.MongoDB.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(uint64(driverConfig.MongoDB.MaxPoolSize))
	}
	return clientOptions
}

func mongoConnectTimeout(driverConfig *config.DriverConfig) time.Duration {
	if driverConfig.MongoDB.ConnectTimeoutInSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(driverConfig.MongoDB.ConnectTimeoutInSeconds) * time.Second
}
