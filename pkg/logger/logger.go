package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - глобальный логгер движка. До вызова Init пишет в stderr
// с уровнем info, поэтому библиотечный код может логировать без инициализации.
var Log = logrus.New()

// Options - настройки логгера из конфигурации
type Options struct {
	Level  string
	Format string
}

// Init настраивает глобальный логгер.
// Переменные окружения LOG_LEVEL и LOG_FORMAT имеют приоритет над opts.
func Init(opts Options) {
	level := opts.Level
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level = env
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)

	// "json" - для сбора логов, "text" - для разработки
	format := opts.Format
	if env, ok := os.LookupEnv("LOG_FORMAT"); ok {
		format = env
	}
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	// stdout у CLI занят результатами запросов
	Log.SetOutput(os.Stderr)
}

// Component возвращает запись с полем component, как принято в подсистемах
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
