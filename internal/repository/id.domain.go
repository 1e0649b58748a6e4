package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joshuarp/idgen-api/internal/domain"
	"github.com/joshuarp/idgen-api/internal/domain/vo"
)

type DomainDefinitionRepository struct {
	db *sqlx.DB
}

type domainDefinitionRow struct {
	Name        string    `db:"name"`
	Scope       string    `db:"scope"`
	Constraints []byte    `db:"constraints"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func NewDomainDefinitionRepository(db *sqlx.DB) *DomainDefinitionRepository {
	return &DomainDefinitionRepository{db: db}
}

// SaveDomain upserts a domain definition. Registering a domain again
// replaces its constraints.
func (r *DomainDefinitionRepository) SaveDomain(ctx context.Context, definition domain.DomainDefinition) (domain.DomainDefinition, error) {
	payload, err := json.Marshal(definition.Constraints)
	if err != nil {
		return domain.DomainDefinition{}, fmt.Errorf("repository: encode constraints failed: %w", err)
	}

	const query = `
		INSERT INTO id_domains (name, scope, constraints, created_at, updated_at)
		VALUES ($1, 'domain', $2, now(), now())
		ON CONFLICT (scope, name) DO UPDATE
		SET constraints = EXCLUDED.constraints, updated_at = now()
		RETURNING name, scope, constraints, created_at, updated_at
	`

	var row domainDefinitionRow
	if err := r.db.GetContext(ctx, &row, query, definition.Name, payload); err != nil {
		return domain.DomainDefinition{}, fmt.Errorf("repository: save domain definition failed: %w", err)
	}

	return row.toDefinition()
}

// SaveGlobalConstraints stores a named global constraint set once. Global
// constraints accumulate, so a second save under the same name is rejected
// with vo.ErrConstraintSetExists.
func (r *DomainDefinitionRepository) SaveGlobalConstraints(ctx context.Context, definition domain.DomainDefinition) error {
	payload, err := json.Marshal(definition.Constraints)
	if err != nil {
		return fmt.Errorf("repository: encode constraints failed: %w", err)
	}

	const query = `
		INSERT INTO id_domains (name, scope, constraints, created_at, updated_at)
		VALUES ($1, 'global', $2, now(), now())
		ON CONFLICT (scope, name) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, definition.Name, payload)
	if err != nil {
		return fmt.Errorf("repository: save global constraints failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return vo.ErrConstraintSetExists
	}

	return nil
}

// ListDefinitions returns every stored definition in registration order.
func (r *DomainDefinitionRepository) ListDefinitions(ctx context.Context) ([]domain.DomainDefinition, error) {
	const query = `
		SELECT name, scope, constraints, created_at, updated_at
		FROM id_domains
		ORDER BY created_at, name
	`

	var rows []domainDefinitionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("repository: list domain definitions failed: %w", err)
	}

	definitions := make([]domain.DomainDefinition, 0, len(rows))
	for _, row := range rows {
		definition, err := row.toDefinition()
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, definition)
	}

	return definitions, nil
}

func (row domainDefinitionRow) toDefinition() (domain.DomainDefinition, error) {
	var constraints []domain.ConstraintSpec
	if err := json.Unmarshal(row.Constraints, &constraints); err != nil {
		return domain.DomainDefinition{}, fmt.Errorf("repository: decode constraints of %q failed: %w", row.Name, err)
	}

	return domain.DomainDefinition{
		Name:        row.Name,
		Scope:       domain.DefinitionScope(row.Scope),
		Constraints: constraints,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
