// Package coordinator grants exclusive, session-scoped registrations. A
// registration lives only as long as the process that created it keeps its
// lease alive; a crashed process loses its registrations once the lease
// expires. Implementations are safe for concurrent use.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Strategy selects the coordination backend.
type Strategy string

const (
	StrategyRedis    Strategy = "redis"
	StrategyPostgres Strategy = "postgres"
	StrategyMemory   Strategy = "memory"
)

const (
	DefaultLeaseTTL        = 30 * time.Second
	DefaultRefreshInterval = 10 * time.Second
	DefaultConnectPoll     = 500 * time.Millisecond
)

var (
	// ErrNodeExists is returned when another live session holds the path.
	ErrNodeExists = errors.New("coordinator: node already exists")

	ErrClosed = errors.New("coordinator: closed")
)

// Coordinator is the interface consumers depend on for exclusive registrations.
type Coordinator interface {
	// BlockUntilConnected waits until the backend answers or ctx is done.
	BlockUntilConnected(ctx context.Context) error

	// CreateExclusiveEphemeral registers path for this session. It fails with
	// ErrNodeExists when another live session owns path. A failed call leaves
	// nothing behind.
	CreateExclusiveEphemeral(ctx context.Context, path string) error

	// OnLeaseLost registers fn to run when a registration held by this
	// session is lost to expiry or another owner. fn runs on a background
	// goroutine and must not block.
	OnLeaseLost(fn func(path string))

	// Close ends the session and drops every registration it holds.
	Close() error
}

// Options configures the coordinator.
type Options struct {
	// Strategy selects the backend.
	Strategy Strategy

	// Owner identifies this session. Required for redis and postgres.
	Owner string

	// Redis is the client used by StrategyRedis.
	Redis *redis.Client

	// KeyPrefix namespaces redis keys. Defaults to "coordinator".
	KeyPrefix string

	// DB is the database used by StrategyPostgres.
	DB *sqlx.DB

	// LeaseTTL is how long a registration survives without a refresh.
	LeaseTTL time.Duration

	// RefreshInterval is how often held leases are extended. Must be shorter
	// than LeaseTTL.
	RefreshInterval time.Duration

	// ConnectPoll is the wait between connectivity probes.
	ConnectPoll time.Duration

	Logger *slog.Logger
}

func (o *Options) withDefaults() error {
	if o.LeaseTTL <= 0 {
		o.LeaseTTL = DefaultLeaseTTL
	}
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = DefaultRefreshInterval
	}
	if o.ConnectPoll <= 0 {
		o.ConnectPoll = DefaultConnectPoll
	}
	if o.RefreshInterval >= o.LeaseTTL {
		return fmt.Errorf("coordinator: refresh interval %s must be shorter than lease ttl %s", o.RefreshInterval, o.LeaseTTL)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return nil
}

// New creates a Coordinator based on the provided options.
func New(opts Options) (Coordinator, error) {
	switch opts.Strategy {
	case StrategyRedis:
		return NewRedisStore(opts)
	case StrategyPostgres:
		return NewSQLXStore(opts)
	case StrategyMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("coordinator: unknown strategy %q", opts.Strategy)
	}
}

// waitConnected polls probe until it succeeds or ctx is done.
func waitConnected(ctx context.Context, poll time.Duration, logger *slog.Logger, probe func(context.Context) error) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		err := probe(ctx)
		if err == nil {
			return nil
		}
		logger.Warn("coordinator not reachable yet", "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
