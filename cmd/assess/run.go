package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"supervision-service/internal/app/config"
	"supervision-service/internal/app/drivers/logger"
	"supervision-service/internal/app/models"
	"supervision-service/internal/app/services/core/workflow"
	"supervision-service/internal/app/services/shared/engineclient"
	"supervision-service/internal/pkg/exceptions"
	"supervision-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a session, fill it from an answers file, review and submit",
	Long: "The answers file is a JSON object of question tag to value, for example " +
		`{"has_job": false, "peer_influence": 2}. Tags the schema does not offer are skipped.`,
	RunE: runAssessment,
}

func init() {
	runCmd.Flags().String("subject", "", "Subject identifier")
	runCmd.Flags().String("type", "", "Assessment type name")
	runCmd.Flags().String("answers", "", "JSON file with answers by tag")
	runCmd.Flags().String("date", "", "Date started (YYYY-MM-DD), defaults to today on the server")
	runCmd.Flags().String("final", "", "Final risk level, defaults to the calculated level")
	runCmd.Flags().String("reason", "", "Override reason, required when --final differs from the calculated level")
	runCmd.Flags().Bool("review-only", false, "Calculate without submitting")
	runCmd.Flags().Duration("timeout", 30*time.Second, "Timeout for each API call")

	_ = runCmd.MarkFlagRequired("subject")
	_ = runCmd.MarkFlagRequired("type")
}

func runAssessment(cmd *cobra.Command, args []string) error {
	server, _ := cmd.Flags().GetString("server")
	verbose, _ := cmd.Flags().GetBool("verbose")
	subjectID, _ := cmd.Flags().GetString("subject")
	assessmentType, _ := cmd.Flags().GetString("type")
	answersPath, _ := cmd.Flags().GetString("answers")
	dateStarted, _ := cmd.Flags().GetString("date")
	finalLevel, _ := cmd.Flags().GetString("final")
	reason, _ := cmd.Flags().GetString("reason")
	reviewOnly, _ := cmd.Flags().GetBool("review-only")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	answers, err := readAnswers(answersPath)
	if err != nil {
		return err
	}

	zapLogger := zap.NewNop()
	if verbose {
		zapLogger = logger.NewZapLogger(config.NewDriverConfig(), config.NewInternalConfig())
		defer func() { _ = zapLogger.Sync() }()
	}

	client := engineclient.NewClient(server, timeout, zapLogger)
	flow := workflow.New(client, zapLogger, timeout)

	ctx := utils.WithRequestID(cmd.Context(), utils.GenerateRequestID())

	startCtx, cancel := context.WithTimeout(ctx, timeout)
	err = flow.Start(startCtx, subjectID, assessmentType, dateStarted)
	cancel()
	if err != nil {
		return err
	}
	session := flow.Session()
	log.WithFields(logrus.Fields{
		"session_id": session.ID,
		"subject_id": session.SubjectID,
		"type":       session.AssessmentTypeName,
	}).Info("session started")

	for _, tag := range sortedTags(answers) {
		if !flow.SetAnswer(tag, answers[tag]) {
			log.WithField("tag", tag).Warn("answer skipped, question is not editable in this assessment")
		}
	}
	flow.Wait()

	reviewCtx, cancel := context.WithTimeout(ctx, timeout)
	err = flow.Review(reviewCtx)
	cancel()
	if err != nil {
		return err
	}
	result := flow.Result()
	log.WithFields(logrus.Fields{
		"total_score":     result.TotalScore,
		"risk_level":      result.RiskLevel,
		"category_scores": result.CategoryScores,
	}).Info("assessment calculated")

	if reviewOnly {
		return nil
	}

	if finalLevel != "" {
		err = flow.SetFinalRiskLevel(finalLevel)
		if err != nil {
			return err
		}
	}
	err = flow.SetOverrideReason(reason)
	if err != nil {
		return err
	}
	if !flow.CanSubmit() {
		return fmt.Errorf("final level %s differs from calculated level %s, pass --reason", flow.FinalRiskLevel(), result.RiskLevel)
	}

	submitCtx, cancel := context.WithTimeout(ctx, timeout)
	submitted, err := flow.Submit(submitCtx)
	cancel()
	if err != nil {
		return err
	}

	fields := logrus.Fields{
		"session_id":  submitted.ID,
		"final_level": flow.FinalRiskLevel(),
	}
	if submitted.IsOverridden() {
		fields["overridden"] = true
	}
	log.WithFields(fields).Info("assessment submitted")
	return nil
}

// failureHint tells the officer whether running the command again can help.
func failureHint(err error) (string, bool) {
	switch {
	case exceptions.IsTransient(err):
		return "assessment failed, the server is busy or unavailable, run the command again", true
	case exceptions.IsNotFound(err):
		return "assessment failed, the subject, assessment type or session was not found", false
	case exceptions.IsConflict(err):
		return "assessment failed, the session changed on the server, start a new assessment", false
	case exceptions.IsValidation(err):
		return "assessment failed, the server rejected the input, fix it and run again", false
	}
	return "assessment failed", false
}

func readAnswers(path string) (map[string]models.AnswerValue, error) {
	answers := make(map[string]models.AnswerValue)
	if path == "" {
		return answers, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(data, &answers)
	if err != nil {
		return nil, fmt.Errorf("answers file %s: %w", path, err)
	}
	return answers, nil
}

func sortedTags(answers map[string]models.AnswerValue) []string {
	tags := make([]string, 0, len(answers))
	for tag := range answers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
