package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Coordinator = (*RedisStore)(nil)

const (
	refreshScript = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return 0
`

	releaseScript = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`
)

// RedisStore holds registrations as keys set with NX and a PX lease.
type RedisStore struct {
	client   *redis.Client
	prefix   string
	owner    string
	leaseTTL time.Duration
	opts     Options
	leases   *leaseKeeper
}

// NewRedisStore creates a Redis-backed Coordinator.
func NewRedisStore(opts Options) (*RedisStore, error) {
	if opts.Redis == nil {
		return nil, errors.New("coordinator: redis client is required")
	}
	if strings.TrimSpace(opts.Owner) == "" {
		return nil, errors.New("coordinator: owner is required")
	}
	if err := opts.withDefaults(); err != nil {
		return nil, err
	}

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "coordinator"
	}

	s := &RedisStore{
		client:   opts.Redis,
		prefix:   prefix,
		owner:    opts.Owner,
		leaseTTL: opts.LeaseTTL,
		opts:     opts,
	}
	s.leases = newLeaseKeeper(opts.RefreshInterval, s.refresh, opts.Logger)
	return s, nil
}

func (s *RedisStore) OnLeaseLost(fn func(path string)) {
	s.leases.onLost(fn)
}

func (s *RedisStore) key(path string) string {
	return s.prefix + ":" + path
}

func (s *RedisStore) BlockUntilConnected(ctx context.Context) error {
	return waitConnected(ctx, s.opts.ConnectPoll, s.opts.Logger, func(ctx context.Context) error {
		return s.client.Ping(ctx).Err()
	})
}

func (s *RedisStore) CreateExclusiveEphemeral(ctx context.Context, path string) error {
	if s.leases.isClosed() {
		return ErrClosed
	}

	created, err := s.client.SetNX(ctx, s.key(path), s.owner, s.leaseTTL).Result()
	if err != nil {
		return fmt.Errorf("coordinator: redis create %s failed: %w", path, err)
	}
	if !created {
		return fmt.Errorf("%w: %s", ErrNodeExists, path)
	}

	return s.leases.track(path)
}

func (s *RedisStore) refresh(ctx context.Context, path string) (bool, error) {
	result, err := s.client.Eval(ctx, refreshScript, []string{s.key(path)}, s.owner, s.leaseTTL.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("coordinator: redis refresh failed: %w", err)
	}
	return result == 1, nil
}

// Close drops the keys this session still owns. The client stays open; it
// belongs to the caller.
func (s *RedisStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ConnectPoll*4)
	defer cancel()

	var errs []error
	for _, path := range s.leases.close() {
		if err := s.client.Eval(ctx, releaseScript, []string{s.key(path)}, s.owner).Err(); err != nil {
			errs = append(errs, fmt.Errorf("coordinator: redis release %s failed: %w", path, err))
		}
	}
	return errors.Join(errs...)
}
