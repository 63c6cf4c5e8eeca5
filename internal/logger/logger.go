// Package logger builds the service's structured logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logrus logger configured for the given environment.
// Production logs are JSON; every other environment logs text.
func New(environment, level string) *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stdout

	if environment == "production" {
		l.Formatter = &logrus.JSONFormatter{}
	} else {
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.Level = lvl

	return l
}
