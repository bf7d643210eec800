package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogrusLogger is the console logger of the command line tools.
func NewLogrusLogger(env string, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	switch env {
	case "production":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
