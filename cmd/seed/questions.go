package main

import (
	"context"
	"os"
	"supervision-service/internal/app/config"
	"supervision-service/internal/app/contracts"
	"supervision-service/internal/app/drivers/database"
	zapLogger "supervision-service/internal/app/drivers/logger"
	"supervision-service/internal/app/services/core/assessment_types"
	"supervision-service/internal/app/services/core/questions"
	"supervision-service/internal/app/services/core/settings"
	"supervision-service/internal/app/services/shared/redis"
	"supervision-service/internal/pkg/utils"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Upsert the question catalog from a CSV export",
	Long: "Reads universal_tag, question_text, input_type, source_type, assessments, " +
		"category and scoring_note columns and upserts one question per row by tag.",
	RunE: runSeedQuestions,
}

func init() {
	questionsCmd.Flags().StringP("file", "f", "risk_questions.csv", "CSV file to import")
	questionsCmd.Flags().Bool("dry-run", false, "Validate the file without writing")
	questionsCmd.Flags().Duration("timeout", 5*time.Minute, "Overall import timeout")
}

func runSeedQuestions(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	rows, err := questions.ReadQuestionsCSV(file)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": path, "rows": len(rows)}).Info("catalog file parsed")

	for i := range rows {
		utils.SanitizeCreateQuestionRequest(&rows[i])
		err = utils.ValidateStruct(&rows[i])
		if err != nil {
			log.WithFields(logrus.Fields{"row": i + 2, "tag": rows[i].Tag}).WithError(err).Error("invalid row")
			return err
		}
	}
	if dryRun {
		log.Info("dry run, nothing written")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx = utils.WithRequestID(ctx, utils.GenerateRequestID())

	questionUsecase, closeDrivers, err := buildQuestionUsecase(ctx)
	if err != nil {
		return err
	}
	defer closeDrivers()

	var created, updated int
	for i := range rows {
		question, isNew, err := questionUsecase.UpsertQuestion(ctx, &rows[i])
		if err != nil {
			log.WithFields(logrus.Fields{"row": i + 2, "tag": rows[i].Tag}).WithError(err).Error("upsert failed")
			return err
		}
		action := "updated"
		if isNew {
			action = "created"
			created++
		} else {
			updated++
		}
		log.WithFields(logrus.Fields{"tag": question.Tag, "tools": question.ApplicableTools}).Debug(action)
	}

	log.WithFields(logrus.Fields{"created": created, "updated": updated}).Info("question catalog seeded")
	return nil
}

func buildQuestionUsecase(ctx context.Context) (contracts.QuestionUsecase, func(), error) {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	logger := zapLogger.NewZapLogger(driverConfig, internalConfig)

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	closeDrivers := func() {
		_ = redisClient.Close()
		_ = mongoDB.Disconnect(context.Background())
		_ = logger.Sync()
	}

	dbName := driverConfig.MongoDB.DbName
	questionRepository := questions.NewQuestionMongoRepository(mongoDB, dbName)
	assessmentTypeRepository := assessment_types.NewAssessmentTypeMongoRepository(mongoDB, dbName)

	err := questionRepository.EnsureIndexes(ctx)
	if err != nil {
		closeDrivers()
		return nil, nil, err
	}

	redisRepository := redis.NewRedisRepository(redisClient)
	settingsService, err := settings.NewSettingsService(questionRepository, assessmentTypeRepository, redisRepository, logger)
	if err != nil {
		closeDrivers()
		return nil, nil, err
	}

	return questions.NewQuestionUsecase(questionRepository, settingsService, logger), closeDrivers, nil
}
