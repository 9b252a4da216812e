package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	l.SetLevel(logrus.InfoLevel)
	l.SetOutput(os.Stdout)
	return l
}

// Setup configures the shared logger. Unknown formats fall back to JSON.
func Setup(level, format string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "text", "console":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	default:
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}
	return nil
}

// SetOutput redirects the shared logger, used by tests
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Get returns the shared logger
func Get() *logrus.Logger {
	return log
}

// WithComponent returns an entry tagged with a component field
func WithComponent(component string) *logrus.Entry {
	return log.WithField("component", component)
}

// WithRequestID returns an entry tagged with a request ID field
func WithRequestID(requestID string) *logrus.Entry {
	return log.WithField("request_id", requestID)
}

// LogError logs err with the module and function it came from.
func LogError(entry *logrus.Entry, funcName string, data any, err error) {
	fields := logrus.Fields{"func": funcName}
	if data != nil {
		fields["data"] = data
	}
	entry.WithFields(fields).Error(err.Error())
}
