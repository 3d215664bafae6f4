package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// TraceHeader carries the request trace id in and out.
	TraceHeader = "X-Trace-ID"

	loggerKey  = "logger"
	traceIDKey = "trace_id"
)

// RequestLogger attaches a trace-scoped logger to every request and logs its
// start and completion. An incoming X-Trace-ID is reused when it is a UUID.
func RequestLogger(base *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(TraceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}

		reqLogger := base.With("trace_id", traceID)
		c.Locals(loggerKey, reqLogger)
		c.Locals(traceIDKey, traceID)
		c.Set(TraceHeader, traceID)

		httpLogger := reqLogger.With(
			"http_method", c.Method(),
			"http_path", c.Path(),
			"remote_addr", c.IP(),
		)

		start := time.Now()
		httpLogger.Debug("Request started")

		err := c.Next()
		if err != nil {
			// Let fiber's error handler write the response before the status is read.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				c.Status(fiber.StatusInternalServerError)
			}
		}

		httpLogger.Info("Request finished",
			"status_code", c.Response().StatusCode(),
			"bytes_written", len(c.Response().Body()),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
}

// Logger returns the request logger set by RequestLogger, or slog.Default.
func Logger(c *fiber.Ctx) *slog.Logger {
	if l, ok := c.Locals(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// TraceID returns the trace id of the current request, if any.
func TraceID(c *fiber.Ctx) string {
	id, _ := c.Locals(traceIDKey).(string)
	return id
}
