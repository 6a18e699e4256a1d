package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/project-hub/pkg/logger"
)

// LoggingMiddleware предоставляет middleware для логирования HTTP запросов
type LoggingMiddleware struct {
	logger logger.Logger
}

// NewLoggingMiddleware создает новый экземпляр LoggingMiddleware
func NewLoggingMiddleware(log logger.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: log}
}

// LogRequest логирует входящие HTTP запросы и их результат
func (m *LoggingMiddleware) LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		rw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rw, r)

		fields := []interface{}{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		}
		if actor, ok := ActorFromContext(r.Context()); ok {
			fields = append(fields, "actor_id", actor.ID)
		}

		if rw.status >= http.StatusInternalServerError {
			m.logger.Warn("request failed", fields...)
		} else {
			m.logger.Info("request completed", fields...)
		}
	})
}

// statusResponseWriter запоминает код статуса ответа
type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
