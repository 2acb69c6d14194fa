// Package logging holds the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

func logger() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "highbar",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// SetLevel sets the minimum level by name: debug, info, warn, error.
func SetLevel(name string) error {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	logger().SetLevel(lvl)
	return nil
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	logger().SetOutput(w)
}

// Logger returns the shared logger for callers that want key/value fields.
func Logger() *log.Logger {
	return logger()
}

func Debug(msg string, args ...interface{}) {
	logger().Debugf(msg, args...)
}

func Info(msg string, args ...interface{}) {
	logger().Infof(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	logger().Warnf(msg, args...)
}

func Error(msg string, args ...interface{}) {
	logger().Errorf(msg, args...)
}
