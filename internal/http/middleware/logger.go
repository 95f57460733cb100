package middleware

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"ticketapi/internal/logging"
)

// Logger logs each HTTP request as one JSON line through the logging package:
// request_id, method, path, status, latency (ms) and trace_id when a span is
// active.
func Logger() fiber.Handler {
	return accessLog(logging.Log)
}

// LoggerWithWriter is Logger with an explicit destination and timezone for ts.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	var mu sync.Mutex
	enc := json.NewEncoder(w)
	return accessLog(func(entry map[string]any) {
		entry["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
		mu.Lock()
		defer mu.Unlock()
		_ = enc.Encode(entry)
	})
}

func accessLog(write func(map[string]any)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		entry := map[string]any{
			"level":      "info",
			"component":  "http",
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if status >= fiber.StatusInternalServerError {
			entry["level"] = "error"
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			entry["trace_id"] = sc.TraceID().String()
		}
		write(entry)

		return err
	}
}
