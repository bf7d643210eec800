package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"supervision-service/internal/app/config"
	"supervision-service/internal/app/delivery/http/controllers"
	"supervision-service/internal/app/delivery/http/middlewares"
	"supervision-service/internal/app/delivery/http/routers"
	"supervision-service/internal/app/drivers/database"
	"supervision-service/internal/app/drivers/logger"
	"supervision-service/internal/app/drivers/messaging"
	"supervision-service/internal/app/drivers/storage"
	"supervision-service/internal/app/services/core/assessment_sessions"
	"supervision-service/internal/app/services/core/assessment_types"
	"supervision-service/internal/app/services/core/questions"
	"supervision-service/internal/app/services/core/schema"
	"supervision-service/internal/app/services/core/settings"
	"supervision-service/internal/app/services/core/subjects"
	"supervision-service/internal/app/services/shared/events"
	"supervision-service/internal/app/services/shared/locker"
	"supervision-service/internal/app/services/shared/redis"
	sharedStorage "supervision-service/internal/app/services/shared/storage"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Version sets the default build version
var Version = "develop"

// Tag sets the default latest commit tag
var Tag = "0.0.1-rc"

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	zapLogger.Info("Starting supervision service",
		zap.String("version", Version),
		zap.String("tag", Tag),
	)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	rabbitMQChannel := messaging.NewRabbitMQChannel(rabbitMQ)
	minioClient := storage.NewMinio(driverConfig)

	bootstrap := &config.Bootstrap{
		Router:          chi.NewRouter(),
		MongoDB:         mongoDB,
		Redis:           redisClient,
		Logger:          zapLogger,
		RabbitMQ:        rabbitMQ,
		RabbitMQChannel: rabbitMQChannel,
		Minio:           minioClient,
		InternalConfig:  internalConfig,
		DriverConfig:    driverConfig,
	}

	err = bootstrapingTheApp(bootstrap, location)
	if err != nil {
		log.Fatalf("Error bootstrapping the app: %v", err)
	}

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Server listening", zap.String("address", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Error while closing drivers: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap, location *time.Location) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := bootstrap.DriverConfig.MongoDB.DbName
	assessmentConfig := bootstrap.InternalConfig.Assessment

	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockService := locker.NewLockService(redisRepository, bootstrap.Logger)

	// Repositories
	questionRepository := questions.NewQuestionMongoRepository(bootstrap.MongoDB, dbName)
	assessmentTypeRepository := assessment_types.NewAssessmentTypeMongoRepository(bootstrap.MongoDB, dbName)
	assessmentSessionRepository := assessment_sessions.NewAssessmentSessionMongoRepository(bootstrap.MongoDB, dbName)

	for _, ensure := range []func(context.Context) error{
		questionRepository.EnsureIndexes,
		assessmentTypeRepository.EnsureIndexes,
		assessmentSessionRepository.EnsureIndexes,
	} {
		err := ensure(ctx)
		if err != nil {
			return err
		}
	}

	// Settings
	settingsService, err := settings.NewSettingsService(questionRepository, assessmentTypeRepository, redisRepository, bootstrap.Logger)
	if err != nil {
		return err
	}

	// Submission side effects
	eventPublisher, err := events.NewPublisher(bootstrap.RabbitMQChannel, bootstrap.Logger, assessmentConfig.SubmittedQueue)
	if err != nil {
		return err
	}
	err = storage.EnsureBucket(ctx, bootstrap.Minio, assessmentConfig.ArchiveBucket, bootstrap.DriverConfig.Minio.Region)
	if err != nil {
		return err
	}
	sessionArchive := sharedStorage.NewMinioSessionArchive(bootstrap.Minio, assessmentConfig.ArchiveBucket, bootstrap.Logger)

	// Subject data
	subjectProvider := subjects.NewSubjectHTTPProvider(
		bootstrap.InternalConfig.SubjectProvider.BaseUrl,
		time.Duration(bootstrap.InternalConfig.SubjectProvider.TimeoutInSeconds)*time.Second,
		bootstrap.InternalConfig.JWT.Secret,
		bootstrap.InternalConfig.JWT.ExpTimeInMinutes,
		redisRepository,
		bootstrap.Logger,
	)

	// Usecases
	questionUsecase := questions.NewQuestionUsecase(questionRepository, settingsService, bootstrap.Logger)
	assessmentTypeUsecase := assessment_types.NewAssessmentTypeUsecase(assessmentTypeRepository, settingsService, bootstrap.Logger)
	schemaUsecase := schema.NewSchemaUsecase(settingsService, subjectProvider, assessmentSessionRepository, assessmentConfig.LookbackDays, bootstrap.Logger)
	assessmentSessionUsecase := assessment_sessions.NewAssessmentSessionUsecase(
		assessmentSessionRepository,
		schemaUsecase,
		settingsService,
		lockService,
		eventPublisher,
		sessionArchive,
		time.Duration(assessmentConfig.LockTTLInSeconds)*time.Second,
		location,
		bootstrap.Logger,
	)

	// Controllers
	questionController := controllers.NewQuestionController(bootstrap.Logger, questionUsecase)
	assessmentTypeController := controllers.NewAssessmentTypeController(bootstrap.Logger, assessmentTypeUsecase, settingsService)
	schemaController := controllers.NewSchemaController(bootstrap.Logger, schemaUsecase)
	assessmentSessionController := controllers.NewAssessmentSessionController(bootstrap.Logger, assessmentSessionUsecase)

	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		middlewares,
		questionController,
		assessmentTypeController,
		schemaController,
		assessmentSessionController,
	)
	return nil
}
