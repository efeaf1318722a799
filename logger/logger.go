package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Loggers are usable before InitLoggers is called; they write to stderr until then.
var (
	InfoLogger  = logrus.New()
	WarnLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

// DefaultLogFile is used when no log file is configured.
const DefaultLogFile = "logs/app.log"

// InitLoggers points all loggers at stdout plus the rotated logFile.
func InitLoggers(logFile string) {
	if logFile == "" {
		logFile = DefaultLogFile
	}

	var out io.Writer = os.Stdout
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	setup(InfoLogger, out, logrus.InfoLevel)
	setup(WarnLogger, out, logrus.WarnLevel)
	setup(ErrorLogger, out, logrus.ErrorLevel)

	if os.Getenv("LOG_LEVEL") == "debug" {
		InfoLogger.SetLevel(logrus.DebugLevel)
	}
}

func setup(l *logrus.Logger, out io.Writer, level logrus.Level) {
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}
