// Package logger wraps logrus with the terse formatter and verbosity
// knobs the CLI exposes through repeated -v flags.
package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&terseFormatter{})
	log.SetLevel(logrus.WarnLevel)
	log.SetOutput(os.Stderr)
}

// terseFormatter renders "HH:MM:SS LEVEL message" without the
// key=value field dump logrus defaults to; probe runs are noisy enough
// without it.
type terseFormatter struct{}

func (f *terseFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := entry.Level.String()
	if len(level) > 4 {
		level = level[:4]
	}
	line := fmt.Sprintf("%s %-4s %s\n",
		entry.Time.Format("15:04:05"),
		level,
		entry.Message)
	return []byte(line), nil
}

// SetVerbosity maps the CLI's repeatable -v count to a logrus level:
// 0 => warn, 1 => info, 2+ => debug.
func SetVerbosity(count int) {
	switch {
	case count >= 2:
		log.SetLevel(logrus.DebugLevel)
	case count == 1:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
}

func Debugf(format string, args ...interface{}) { log.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { log.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { log.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { log.Fatalf(format, args...) }
