package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger - интерфейс для логирования. Поля передаются либо парами
// ключ-значение, либо как map[string]interface{}.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Fatal(msg string, err error, fields ...interface{})
	With(key string, value interface{}) Logger
}

// ZeroLogger - реализация логгера на основе zerolog
type ZeroLogger struct {
	logger zerolog.Logger
}

// NewLogger создает новый экземпляр логгера
func NewLogger(level string, isJSON bool) *ZeroLogger {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if isJSON {
		// Для продакшена используем JSON
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Для разработки используем консольный вывод
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "2006-01-02 15:04:05",
		}
		logger = zerolog.New(output).With().Timestamp().Logger()
	}

	return &ZeroLogger{logger: logger}
}

// applyFields добавляет поля к событию: пары ключ-значение и карты
func applyFields(event *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i < len(fields); i++ {
		switch f := fields[i].(type) {
		case map[string]interface{}:
			for k, v := range f {
				event = event.Interface(k, v)
			}
		case string:
			if i+1 < len(fields) {
				event = event.Interface(f, fields[i+1])
				i++
			}
		}
	}
	return event
}

// Debug логирует отладочное сообщение
func (l *ZeroLogger) Debug(msg string, fields ...interface{}) {
	applyFields(l.logger.Debug(), fields).Msg(msg)
}

// Info логирует информационное сообщение
func (l *ZeroLogger) Info(msg string, fields ...interface{}) {
	applyFields(l.logger.Info(), fields).Msg(msg)
}

// Warn логирует предупреждение
func (l *ZeroLogger) Warn(msg string, fields ...interface{}) {
	applyFields(l.logger.Warn(), fields).Msg(msg)
}

// Error логирует ошибку
func (l *ZeroLogger) Error(msg string, err error, fields ...interface{}) {
	event := l.logger.Error()
	if err != nil {
		event = event.Err(err)
	}
	applyFields(event, fields).Msg(msg)
}

// Fatal логирует критическую ошибку и завершает программу
func (l *ZeroLogger) Fatal(msg string, err error, fields ...interface{}) {
	event := l.logger.Fatal()
	if err != nil {
		event = event.Err(err)
	}
	applyFields(event, fields).Msg(msg)
}

// With добавляет постоянное поле к логгеру
func (l *ZeroLogger) With(key string, value interface{}) Logger {
	return &ZeroLogger{
		logger: l.logger.With().Interface(key, value).Logger(),
	}
}

// NewNop возвращает логгер, отбрасывающий все сообщения. Используется в тестах.
func NewNop() *ZeroLogger {
	return &ZeroLogger{logger: zerolog.Nop()}
}
