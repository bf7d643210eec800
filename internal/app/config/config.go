package config

import (
	"supervision-service/internal/pkg/constvars"
	"supervision-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "supervision"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),

			MaxPoolSize:             utils.GetEnvInt("MONGODB_MAX_POOL_SIZE", 50),
			ConnectTimeoutInSeconds: utils.GetEnvInt("MONGODB_CONNECT_TIMEOUT_IN_SECONDS", 10),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
			ServiceName:         utils.GetEnvString("LOGGER_SERVICE_NAME", "supervision-service"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
			Region:   utils.GetEnvString("MINIO_REGION", ""),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "UTC"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUESTS", 20),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 1),
			AutosaveRatePerSecond:      utils.GetEnvInt("APP_AUTOSAVE_RATE_PER_SECOND", 10),
			AutosaveBurst:              utils.GetEnvInt("APP_AUTOSAVE_BURST", 30),
			AutosaveBlockSeconds:       utils.GetEnvInt("APP_AUTOSAVE_BLOCK_SECONDS", 0),
			CorsAllowedOrigins:         utils.GetEnvStringSlice("APP_CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Assessment: AppAssessment{
			LookbackDays:     utils.GetEnvInt("ASSESSMENT_LOOKBACK_DAYS", constvars.DefaultLookbackDays),
			LockTTLInSeconds: utils.GetEnvInt("ASSESSMENT_LOCK_TTL_IN_SECONDS", 10),
			SubmittedQueue:   utils.GetEnvString("ASSESSMENT_SUBMITTED_QUEUE", "assessment_submitted_queue"),
			ArchiveBucket:    utils.GetEnvString("ASSESSMENT_ARCHIVE_BUCKET", "assessment-archive"),
		},
		SubjectProvider: AppSubjectProvider{
			BaseUrl:          utils.GetEnvString("SUBJECT_PROVIDER_BASE_URL", "http://localhost:9090"),
			TimeoutInSeconds: utils.GetEnvInt("SUBJECT_PROVIDER_TIMEOUT_IN_SECONDS", 5),
		},
		JWT: AppJWT{
			Secret:           utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInMinutes: utils.GetEnvInt("JWT_EXP_TIME_IN_MINUTES", 5),
		},
		Admin: AppAdmin{
			APIKeyHash: utils.GetEnvString("ADMIN_API_KEY_HASH", ""),
		},
	}
}
