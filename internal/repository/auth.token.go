package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joshuarp/idgen-api/internal/domain"
	"github.com/joshuarp/idgen-api/internal/domain/vo"
)

type APIClientRepository struct {
	db *sqlx.DB
}

type apiClientRow struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	SecretHash string `db:"secret_hash"`
	Status     string `db:"status"`
	Scopes     string `db:"scopes"`
}

func NewAPIClientRepository(db *sqlx.DB) *APIClientRepository {
	return &APIClientRepository{db: db}
}

// GetActiveClient returns vo.ErrInvalidCredentials for unknown or disabled
// clients so callers cannot tell the two apart.
func (r *APIClientRepository) GetActiveClient(ctx context.Context, clientID string) (domain.APIClient, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return domain.APIClient{}, vo.ErrInvalidCredentials
	}

	const query = `
		SELECT id, name, secret_hash, status, scopes
		FROM api_clients
		WHERE id = $1
		LIMIT 1
	`

	var row apiClientRow
	if err := r.db.GetContext(ctx, &row, query, clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.APIClient{}, vo.ErrInvalidCredentials
		}
		return domain.APIClient{}, fmt.Errorf("repository: get api client failed: %w", err)
	}

	if row.Status != "active" {
		return domain.APIClient{}, vo.ErrInvalidCredentials
	}

	return domain.APIClient{
		ID:         row.ID,
		Name:       row.Name,
		SecretHash: row.SecretHash,
		Status:     row.Status,
		Scopes:     splitScopes(row.Scopes),
	}, nil
}

func (r *APIClientRepository) UpdateSecretHash(ctx context.Context, clientID, secretHash string) error {
	const query = `
		UPDATE api_clients
		SET secret_hash = $2, updated_at = now()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, clientID, secretHash)
	if err != nil {
		return fmt.Errorf("repository: update api client secret failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return vo.ErrInvalidCredentials
	}

	return nil
}

// scopes are stored comma separated.
func splitScopes(raw string) []string {
	parts := strings.Split(raw, ",")
	scopes := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			scopes = append(scopes, part)
		}
	}
	return scopes
}
