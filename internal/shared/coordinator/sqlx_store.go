package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

var _ Coordinator = (*SQLXStore)(nil)

const (
	createLeaseQuery = `
INSERT INTO node_leases (path, owner, expires_at, created_at, updated_at)
VALUES ($1, $2, now() + $3 * interval '1 millisecond', now(), now())
ON CONFLICT (path) DO UPDATE
SET owner = EXCLUDED.owner, expires_at = EXCLUDED.expires_at, updated_at = now()
WHERE node_leases.expires_at < now()`

	refreshLeaseQuery = `
UPDATE node_leases
SET expires_at = now() + $3 * interval '1 millisecond', updated_at = now()
WHERE path = $1 AND owner = $2`

	releaseLeasesQuery = `
DELETE FROM node_leases
WHERE owner = $1`
)

// SQLXStore holds registrations as rows in node_leases. An expired row is
// taken over by the next creator.
type SQLXStore struct {
	db       *sqlx.DB
	owner    string
	leaseTTL time.Duration
	opts     Options
	leases   *leaseKeeper
}

// NewSQLXStore creates a Postgres-backed Coordinator.
func NewSQLXStore(opts Options) (*SQLXStore, error) {
	if opts.DB == nil {
		return nil, errors.New("coordinator: database is required")
	}
	if strings.TrimSpace(opts.Owner) == "" {
		return nil, errors.New("coordinator: owner is required")
	}
	if err := opts.withDefaults(); err != nil {
		return nil, err
	}

	s := &SQLXStore{
		db:       opts.DB,
		owner:    opts.Owner,
		leaseTTL: opts.LeaseTTL,
		opts:     opts,
	}
	s.leases = newLeaseKeeper(opts.RefreshInterval, s.refresh, opts.Logger)
	return s, nil
}

func (s *SQLXStore) OnLeaseLost(fn func(path string)) {
	s.leases.onLost(fn)
}

func (s *SQLXStore) BlockUntilConnected(ctx context.Context) error {
	return waitConnected(ctx, s.opts.ConnectPoll, s.opts.Logger, s.db.PingContext)
}

func (s *SQLXStore) CreateExclusiveEphemeral(ctx context.Context, path string) error {
	if s.leases.isClosed() {
		return ErrClosed
	}

	result, err := s.db.ExecContext(ctx, createLeaseQuery, path, s.owner, s.leaseTTL.Milliseconds())
	if err != nil {
		return fmt.Errorf("coordinator: create lease %s failed: %w", path, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("coordinator: failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNodeExists, path)
	}

	return s.leases.track(path)
}

func (s *SQLXStore) refresh(ctx context.Context, path string) (bool, error) {
	result, err := s.db.ExecContext(ctx, refreshLeaseQuery, path, s.owner, s.leaseTTL.Milliseconds())
	if err != nil {
		return false, fmt.Errorf("coordinator: refresh lease failed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("coordinator: failed to read affected rows: %w", err)
	}
	return rowsAffected == 1, nil
}

// Close deletes every lease of this session. The database stays open.
func (s *SQLXStore) Close() error {
	if len(s.leases.close()) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ConnectPoll*4)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, releaseLeasesQuery, s.owner); err != nil {
		return fmt.Errorf("coordinator: release leases failed: %w", err)
	}
	return nil
}
