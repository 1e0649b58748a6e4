package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/joshuarp/idgen-api/internal/domain/vo"
)

type IDGenerateService interface {
	Generate(ctx context.Context, input vo.GenerateIDInput) (vo.GeneratedID, error)
	GenerateBatch(ctx context.Context, input vo.GenerateBatchInput) (vo.GeneratedBatch, error)
}

type IDGenerateHandler struct {
	service IDGenerateService
	logger  *slog.Logger
}

type generateIDRequest struct {
	Namespace   string `json:"namespace"`
	Suffix      string `json:"suffix"`
	Formatter   string `json:"formatter"`
	Domain      string `json:"domain"`
	SkipGlobal  bool   `json:"skip_global"`
	Constrained bool   `json:"constrained"`
	Partition   *int   `json:"partition"`
}

type generateBatchRequest struct {
	Namespace string `json:"namespace"`
	Suffix    string `json:"suffix"`
	Formatter string `json:"formatter"`
	Count     int    `json:"count"`
}

func NewIDGenerateHandler(service IDGenerateService, logger *slog.Logger) *IDGenerateHandler {
	return &IDGenerateHandler{service: service, logger: logger}
}

func (h *IDGenerateHandler) Handle(c fiber.Ctx) error {
	clientID, ok := c.Locals("client_id").(string)
	if !ok || clientID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing authenticated client",
		})
	}

	var requestBody generateIDRequest
	if err := c.Bind().JSON(&requestBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := h.service.Generate(c.Context(), vo.GenerateIDInput{
		ClientID:    clientID,
		Namespace:   requestBody.Namespace,
		Suffix:      requestBody.Suffix,
		Formatter:   requestBody.Formatter,
		Domain:      requestBody.Domain,
		SkipGlobal:  requestBody.SkipGlobal,
		Constrained: requestBody.Constrained,
		Partition:   requestBody.Partition,
	})
	if err != nil {
		return h.writeError(c, clientID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *IDGenerateHandler) HandleBatch(c fiber.Ctx) error {
	clientID, ok := c.Locals("client_id").(string)
	if !ok || clientID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing authenticated client",
		})
	}

	var requestBody generateBatchRequest
	if err := c.Bind().JSON(&requestBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := h.service.GenerateBatch(c.Context(), vo.GenerateBatchInput{
		ClientID:  clientID,
		Namespace: requestBody.Namespace,
		Suffix:    requestBody.Suffix,
		Formatter: requestBody.Formatter,
		Count:     requestBody.Count,
	})
	if err != nil {
		return h.writeError(c, clientID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *IDGenerateHandler) writeError(c fiber.Ctx, clientID string, err error) error {
	switch {
	case errors.Is(err, vo.ErrInvalidIDRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, vo.ErrIDRejected):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "id rejected by constraint"})
	case errors.Is(err, vo.ErrIDUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "id generation unavailable"})
	default:
		h.logger.Error("failed to generate id", "client_id", clientID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
