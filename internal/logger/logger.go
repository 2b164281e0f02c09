package logger

import (
	"github.com/sirupsen/logrus"
)

// Log - глобальный структурированный логгер приложения.
var Log *logrus.Logger

// Init создаёт логгер с указанным уровнем. Непонятный уровень тихо
// заменяется на info. По умолчанию вывод в JSON.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter переключает вывод на человекочитаемый текст. Удобно
// в development, где JSON мешает читать логи.
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}
