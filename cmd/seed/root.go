package main

import (
	"supervision-service/internal/app/config"
	"supervision-service/internal/app/drivers/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log *logrus.Logger

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "Load catalog data into the assessment store",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		log = logger.NewLogrusLogger(config.NewInternalConfig().App.Env, verbose)
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil && log != nil {
		log.WithError(err).Error("seed failed")
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every row")

	rootCmd.AddCommand(questionsCmd)
}
