package middlewares

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"

	"github.com/joshuarp/idgen-api/internal/shared/uid"
)

const RequestIDHeader = "X-Request-ID"

// NewHTTPRequestIDMiddleware tags each request with an id from generator,
// falling back to a random UUID when generator is nil or fails.
func NewHTTPRequestIDMiddleware(generator uid.UIDGenerator) fiber.Handler {
	return requestid.New(requestid.Config{
		Header: RequestIDHeader,
		Generator: func() string {
			if generator == nil {
				return uuid.NewString()
			}
			id, err := generator.Generate(context.Background())
			if err != nil {
				return uuid.NewString()
			}
			return id
		},
	})
}

func RequestIDFromContext(c fiber.Ctx) string {
	requestID := requestid.FromContext(c)
	if requestID != "" {
		return requestID
	}

	return c.Get(RequestIDHeader)
}
