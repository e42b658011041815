// Package logging provides leveled, structured logging for the application.
//
// Every package obtains its own logger via GetLogger(pkgName); the returned
// entry tags each line with the package name so log output can be filtered
// per component. The global level and format are configured once at startup
// (typically from the --log-level flag) via Configure.
package logging

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// GetLogger returns a logger tagged with the given package name.
func GetLogger(pkgName string) *logrus.Entry {
	return logrus.WithField("pkg", pkgName)
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// Configure sets the global log level and output format.
// Level must be one of debug, info, warn, error.
func Configure(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}

	logrus.SetLevel(parsed)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return nil
}

// ParseLevel converts a string level to a logrus level
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel, nil
	case "info":
		return logrus.InfoLevel, nil
	case "warning", "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}
