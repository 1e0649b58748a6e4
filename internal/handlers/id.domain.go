package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/joshuarp/idgen-api/internal/domain"
	"github.com/joshuarp/idgen-api/internal/domain/vo"
)

type DomainRegistrationService interface {
	RegisterDomain(ctx context.Context, definition domain.DomainDefinition) (domain.DomainDefinition, error)
	RegisterGlobalConstraints(ctx context.Context, definition domain.DomainDefinition) error
}

type DomainHandler struct {
	service DomainRegistrationService
	logger  *slog.Logger
}

type constraintSetRequest struct {
	Name        string                  `json:"name"`
	Constraints []domain.ConstraintSpec `json:"constraints"`
}

func NewDomainHandler(service DomainRegistrationService, logger *slog.Logger) *DomainHandler {
	return &DomainHandler{service: service, logger: logger}
}

func (h *DomainHandler) HandleDomain(c fiber.Ctx) error {
	var requestBody constraintSetRequest
	if err := c.Bind().JSON(&requestBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	saved, err := h.service.RegisterDomain(c.Context(), domain.DomainDefinition{
		Name:        requestBody.Name,
		Constraints: requestBody.Constraints,
	})
	if err != nil {
		return h.writeError(c, requestBody.Name, err)
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (h *DomainHandler) HandleGlobal(c fiber.Ctx) error {
	var requestBody constraintSetRequest
	if err := c.Bind().JSON(&requestBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	err := h.service.RegisterGlobalConstraints(c.Context(), domain.DomainDefinition{
		Name:        requestBody.Name,
		Constraints: requestBody.Constraints,
	})
	if err != nil {
		return h.writeError(c, requestBody.Name, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"name":        requestBody.Name,
		"constraints": len(requestBody.Constraints),
	})
}

func (h *DomainHandler) writeError(c fiber.Ctx, name string, err error) error {
	switch {
	case errors.Is(err, vo.ErrInvalidConstraintSpec):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, vo.ErrConstraintSetExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "constraint set already registered"})
	default:
		h.logger.Error("failed to register constraints", "name", name, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
