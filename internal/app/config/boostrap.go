package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router          *chi.Mux
	MongoDB         *mongo.Client
	Redis           *redis.Client
	Logger          *zap.Logger
	RabbitMQ        *amqp091.Connection
	RabbitMQChannel *amqp091.Channel
	Minio           *minio.Client
	InternalConfig  *InternalConfig
	DriverConfig    *DriverConfig
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.RabbitMQChannel != nil {
		err := b.RabbitMQChannel.Close()
		if err != nil {
			return err
		}
		log.Println("Successfully closing RabbitMQ channel")
	}

	if b.RabbitMQ != nil {
		err := b.RabbitMQ.Close()
		if err != nil {
			return err
		}
		log.Println("Successfully closing RabbitMQ")
	}

	err := b.Redis.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing Redis")

	err = b.MongoDB.Disconnect(ctx)
	if err != nil {
		return err
	}
	log.Println("Successfully closing MongoDB")

	// Sync on a console sink returns EINVAL on some platforms, nothing to flush there.
	_ = b.Logger.Sync()
	log.Println("Successfully closing Logger")

	return nil
}
