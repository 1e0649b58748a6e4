package idempotency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	defaultLockTTL = 30 * time.Second
	defaultTable   = "id_idempotency"
)

var _ Store = (*SQLXStore)(nil)

type SQLXStore struct {
	db    *sqlx.DB
	table string
	now   func() time.Time
}

type SQLXStoreOption func(*SQLXStore)

// WithTable overrides the backing table name. The name is interpolated into
// queries and must come from configuration, never from a request.
func WithTable(table string) SQLXStoreOption {
	return func(s *SQLXStore) {
		if table = strings.TrimSpace(table); table != "" {
			s.table = table
		}
	}
}

func NewSQLXStore(db *sqlx.DB, opts ...SQLXStoreOption) *SQLXStore {
	s := &SQLXStore{db: db, table: defaultTable, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type idempotencyRow struct {
	RequestHash    string         `db:"request_hash"`
	Status         string         `db:"status"`
	ResponseStatus sql.NullInt64  `db:"response_status"`
	ResponseBody   []byte         `db:"response_body"`
	ResponseType   sql.NullString `db:"response_content_type"`
	LockedUntil    time.Time      `db:"locked_until"`
}

func (s *SQLXStore) Acquire(ctx context.Context, request Request) (Decision, error) {
	if s == nil || s.db == nil {
		return Decision{}, errors.New("idempotency: store is not initialized")
	}

	request, err := request.normalize()
	if err != nil {
		return Decision{}, err
	}

	lockTTL := request.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}

	now := s.now().UTC()
	lockUntil := now.Add(lockTTL)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Decision{}, fmt.Errorf("idempotency: failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	selectQuery := `
SELECT request_hash, status, response_status, response_body, response_content_type, locked_until
FROM ` + s.table + `
WHERE scope = $1 AND idempotency_key = $2
FOR UPDATE`

	var existing idempotencyRow
	err = tx.GetContext(ctx, &existing, selectQuery, request.Scope, request.Key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return Decision{}, fmt.Errorf("idempotency: failed to query key: %w", err)
		}

		insertQuery := `
INSERT INTO ` + s.table + ` (
	scope, idempotency_key, request_hash, status, locked_until, created_at, updated_at
) VALUES ($1, $2, $3, 'in_progress', $4, now(), now())`

		if _, err := tx.ExecContext(ctx, insertQuery, request.Scope, request.Key, request.RequestHash, lockUntil); err != nil {
			return Decision{}, fmt.Errorf("idempotency: failed to insert key: %w", err)
		}

		return commitWith(tx, Decision{Type: DecisionAcquired}, "acquire insert")
	}

	switch {
	case existing.RequestHash != request.RequestHash:
		return commitWith(tx, Decision{Type: DecisionConflict}, "conflict read")
	case existing.Status == "completed":
		decision := Decision{
			Type: DecisionReplay,
			Body: append([]byte(nil), existing.ResponseBody...),
		}
		if existing.ResponseStatus.Valid {
			decision.StatusCode = int(existing.ResponseStatus.Int64)
		}
		if existing.ResponseType.Valid {
			decision.ContentType = existing.ResponseType.String
		}
		return commitWith(tx, decision, "replay read")
	case existing.Status == "in_progress" && existing.LockedUntil.After(now):
		return commitWith(tx, Decision{Type: DecisionInProgress}, "in-progress read")
	}

	// The previous holder's lock lapsed without completing.
	reacquireQuery := `
UPDATE ` + s.table + `
SET status = 'in_progress', locked_until = $3, updated_at = now()
WHERE scope = $1 AND idempotency_key = $2`

	if _, err := tx.ExecContext(ctx, reacquireQuery, request.Scope, request.Key, lockUntil); err != nil {
		return Decision{}, fmt.Errorf("idempotency: failed to reacquire key: %w", err)
	}

	return commitWith(tx, Decision{Type: DecisionAcquired}, "reacquire")
}

func commitWith(tx *sqlx.Tx, decision Decision, stage string) (Decision, error) {
	if err := tx.Commit(); err != nil {
		return Decision{}, fmt.Errorf("idempotency: failed to commit %s: %w", stage, err)
	}
	return decision, nil
}

func (s *SQLXStore) Complete(ctx context.Context, request Request, response StoredResponse) error {
	if s == nil || s.db == nil {
		return errors.New("idempotency: store is not initialized")
	}

	request, err := request.normalize()
	if err != nil {
		return err
	}

	updateQuery := `
UPDATE ` + s.table + `
SET
	status = 'completed',
	response_status = $4,
	response_body = $5,
	response_content_type = $6,
	locked_until = now(),
	completed_at = now(),
	updated_at = now()
WHERE scope = $1 AND idempotency_key = $2 AND request_hash = $3`

	result, err := s.db.ExecContext(ctx, updateQuery,
		request.Scope, request.Key, request.RequestHash,
		response.StatusCode, response.Body, strings.TrimSpace(response.ContentType),
	)
	if err != nil {
		return fmt.Errorf("idempotency: failed to persist response: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("idempotency: failed to read affected rows: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
