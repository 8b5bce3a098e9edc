// Package logger configures the process-wide logrus logger.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SetupLogger sets the text formatter and the level named by verbosity
// ("trace", "debug", anything else means info).
func SetupLogger(verbosity string) {
	logrus.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.StampMilli, FullTimestamp: true})

	switch verbosity {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}
