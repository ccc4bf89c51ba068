// Package logger is the process-wide structured logger.
//
// Calls take a message followed by key/value pairs:
//
//	logger.Info("payout created", "vendor_id", id, "amount", amount)
//
// A bare error in the argument list is logged under the "error" key, so
// logger.Error("failed to load vendor", err) works as well.
package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = newLogger("development")

func newLogger(env string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	switch strings.ToLower(env) {
	case "production", "staging":
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.InfoLevel)
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		l.SetLevel(logrus.DebugLevel)
	}

	return l
}

// Init configures formatter and level for the given environment name.
func Init(env string) {
	log = newLogger(env)
}

// SetLevel overrides the level picked by Init. Unknown names are ignored.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	log.SetLevel(lvl)
}

// Logger exposes the underlying logrus logger for libraries that want one.
func Logger() *logrus.Logger {
	return log
}

func Debug(msg string, args ...any) {
	log.WithFields(fields(args)).Debug(msg)
}

func Info(msg string, args ...any) {
	log.WithFields(fields(args)).Info(msg)
}

func Warn(msg string, args ...any) {
	log.WithFields(fields(args)).Warn(msg)
}

func Error(msg string, args ...any) {
	log.WithFields(fields(args)).Error(msg)
}

func Fatal(msg string, args ...any) {
	log.WithFields(fields(args)).Fatal(msg)
}

func fields(args []any) logrus.Fields {
	f := logrus.Fields{}
	var extra []any

	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case error:
			f[logrus.ErrorKey] = v
		case string:
			if i+1 < len(args) {
				f[v] = args[i+1]
				i++
				continue
			}
			extra = append(extra, v)
		default:
			extra = append(extra, v)
		}
	}

	if len(extra) > 0 {
		f["args"] = strings.TrimSuffix(fmt.Sprintln(extra...), "\n")
	}

	return f
}
