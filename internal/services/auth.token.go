package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshuarp/idgen-api/internal/domain"
	"github.com/joshuarp/idgen-api/internal/domain/vo"
	sharedhash "github.com/joshuarp/idgen-api/internal/shared/hash"
	sharedjwt "github.com/joshuarp/idgen-api/internal/shared/jwt"
)

type APIClientRepository interface {
	GetActiveClient(ctx context.Context, clientID string) (domain.APIClient, error)
	UpdateSecretHash(ctx context.Context, clientID string, secretHash string) error
}

type AuthTokenService struct {
	repository   APIClientRepository
	hasher       sharedhash.Hasher
	tokenManager sharedjwt.TokenManager
	logger       *slog.Logger
}

func NewAuthTokenService(
	repository APIClientRepository,
	hasher sharedhash.Hasher,
	tokenManager sharedjwt.TokenManager,
	logger *slog.Logger,
) *AuthTokenService {
	return &AuthTokenService{
		repository:   repository,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// IssueToken exchanges client credentials for a bearer token carrying the
// client's scopes. Secrets hashed at an outdated cost are upgraded in place.
func (s *AuthTokenService) IssueToken(ctx context.Context, clientID, secret string) (vo.AuthToken, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" || strings.TrimSpace(secret) == "" {
		return vo.AuthToken{}, vo.ErrInvalidCredentials
	}

	client, err := s.repository.GetActiveClient(ctx, clientID)
	if err != nil {
		return vo.AuthToken{}, err
	}

	if err := s.hasher.Compare(ctx, client.SecretHash, secret); err != nil {
		if errors.Is(err, sharedhash.ErrMismatch) {
			return vo.AuthToken{}, vo.ErrInvalidCredentials
		}
		return vo.AuthToken{}, fmt.Errorf("service: failed to verify client secret: %w", err)
	}

	if s.hasher.NeedsRehash(client.SecretHash) {
		s.rehash(ctx, client.ID, secret)
	}

	token, err := s.tokenManager.Sign(ctx, sharedjwt.Claims{Subject: client.ID, Scopes: client.Scopes})
	if err != nil {
		return vo.AuthToken{}, fmt.Errorf("service: failed to issue token: %w", err)
	}

	return vo.AuthToken{
		AccessToken: token,
		TokenType:   "Bearer",
		Scopes:      client.Scopes,
	}, nil
}

// rehash failures leave the old hash in place; the next login retries.
func (s *AuthTokenService) rehash(ctx context.Context, clientID, secret string) {
	hashed, err := s.hasher.Hash(ctx, secret)
	if err != nil {
		s.logger.Warn("failed to rehash client secret", "client_id", clientID, "error", err)
		return
	}

	if err := s.repository.UpdateSecretHash(ctx, clientID, hashed); err != nil {
		s.logger.Warn("failed to store rehashed client secret", "client_id", clientID, "error", err)
	}
}
