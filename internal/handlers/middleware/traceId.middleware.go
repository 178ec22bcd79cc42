package middleware

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TraceIDHeader   = "X-Trace-ID"
	TraceIDLocalKey = "traceID"
)

// TraceID propagates the caller's X-Trace-ID, minting one when absent, and
// seeds the request context so every log line downstream carries it.
func (m *Middleware) TraceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(TraceIDHeader, traceID)
		c.Locals(TraceIDLocalKey, traceID)

		ctx := logger.ContextWithTraceID(c.Context(), traceID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

func GetTraceID(c *fiber.Ctx) string {
	if traceID, ok := c.Locals(TraceIDLocalKey).(string); ok {
		return traceID
	}
	return ""
}
