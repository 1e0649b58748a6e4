package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/joshuarp/idgen-api/internal/domain/vo"
)

type AuthTokenService interface {
	IssueToken(ctx context.Context, clientID, secret string) (vo.AuthToken, error)
}

type AuthTokenHandler struct {
	service AuthTokenService
	logger  *slog.Logger
}

type authTokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func NewAuthTokenHandler(service AuthTokenService, logger *slog.Logger) *AuthTokenHandler {
	return &AuthTokenHandler{service: service, logger: logger}
}

func (h *AuthTokenHandler) Register(router fiber.Router) {
	router.Post("/auth/token", h.Handle)
}

func (h *AuthTokenHandler) Handle(c fiber.Ctx) error {
	var requestBody authTokenRequest
	if err := c.Bind().JSON(&requestBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if strings.TrimSpace(requestBody.ClientID) == "" || strings.TrimSpace(requestBody.ClientSecret) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "client_id and client_secret are required",
		})
	}

	token, err := h.service.IssueToken(c.Context(), requestBody.ClientID, requestBody.ClientSecret)
	if err != nil {
		if errors.Is(err, vo.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid client credentials",
			})
		}

		h.logger.Error("failed to issue token", "client_id", requestBody.ClientID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(token)
}
