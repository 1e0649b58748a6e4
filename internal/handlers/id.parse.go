package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/joshuarp/idgen-api/internal/domain/vo"
)

type IDParseService interface {
	Parse(ctx context.Context, text string) (vo.ParsedID, error)
}

type IDParseHandler struct {
	service IDParseService
	logger  *slog.Logger
}

func NewIDParseHandler(service IDParseService, logger *slog.Logger) *IDParseHandler {
	return &IDParseHandler{service: service, logger: logger}
}

func (h *IDParseHandler) Handle(c fiber.Ctx) error {
	id := c.Params("id")

	parsed, err := h.service.Parse(c.Context(), id)
	if err != nil {
		if errors.Is(err, vo.ErrIDNotParsable) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "id not parsable",
			})
		}

		h.logger.Error("failed to parse id", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(parsed)
}
