package main

import (
	"context"
	"supervision-service/internal/app/config"
	"supervision-service/internal/app/drivers/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log *logrus.Logger

var rootCmd = &cobra.Command{
	Use:           "assess",
	Short:         "Run a risk assessment against the assessment API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		log = logger.NewLogrusLogger(config.NewInternalConfig().App.Env, verbose)
	},
}

func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil && log != nil {
		hint, retryable := failureHint(err)
		log.WithError(err).WithField("retryable", retryable).Error(hint)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("server", "http://localhost:8080/api/v1", "Assessment API base URL including prefix and version")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log autosave traffic")

	rootCmd.AddCommand(runCmd)
}
