// Package nodeid claims a process-wide node identity through an exclusive,
// session-scoped registration.
package nodeid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joshuarp/idgen-api/internal/idgen"
	"github.com/joshuarp/idgen-api/internal/shared/coordinator"
)

const defaultBackoff = 200 * time.Millisecond

// Registrar is the slice of the coordinator the manager needs.
type Registrar interface {
	BlockUntilConnected(ctx context.Context) error
	CreateExclusiveEphemeral(ctx context.Context, path string) error
}

// Manager assigns a node identity once per process.
type Manager struct {
	registrar   Registrar
	processName string
	random      idgen.Random
	backoff     time.Duration
	logger      *slog.Logger

	assignMu sync.Mutex
	mu       sync.RWMutex
	node     int
	assigned bool
}

type Option func(*Manager)

func WithRandom(random idgen.Random) Option {
	return func(m *Manager) {
		m.random = random
	}
}

// WithBackoff sets the wait after a coordinator error other than a collision.
func WithBackoff(backoff time.Duration) Option {
	return func(m *Manager) {
		m.backoff = backoff
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(registrar Registrar, processName string, opts ...Option) (*Manager, error) {
	if registrar == nil {
		return nil, errors.New("nodeid: registrar is required")
	}

	processName = strings.Trim(strings.TrimSpace(processName), "/")
	if processName == "" {
		return nil, errors.New("nodeid: process name is required")
	}

	m := &Manager{
		registrar:   registrar,
		processName: processName,
		backoff:     defaultBackoff,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.random == nil {
		m.random = idgen.NewSecureRandom()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	return m, nil
}

// Path is where node claims for processName are registered.
func Path(processName string, node int) string {
	return fmt.Sprintf("/%s/nodes/%04d", processName, node)
}

// Assign claims a random free node and remembers it. Later calls return the
// stored node without touching the coordinator. Collisions retry with a new
// candidate until ctx is done.
func (m *Manager) Assign(ctx context.Context) (int, error) {
	m.assignMu.Lock()
	defer m.assignMu.Unlock()

	if node, ok := m.Node(); ok {
		return node, nil
	}

	if err := m.registrar.BlockUntilConnected(ctx); err != nil {
		return 0, fmt.Errorf("nodeid: waiting for coordinator: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		candidate := m.random.IntN(idgen.MaxNodes)
		path := Path(m.processName, candidate)

		err := m.registrar.CreateExclusiveEphemeral(ctx, path)
		switch {
		case err == nil:
			m.mu.Lock()
			m.node = candidate
			m.assigned = true
			m.mu.Unlock()
			m.logger.Info("node identity assigned", "node", candidate, "path", path)
			return candidate, nil
		case errors.Is(err, coordinator.ErrNodeExists):
			m.logger.Warn("node identity taken, retrying", "node", candidate)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return 0, err
		default:
			m.logger.Error("node identity registration failed", "node", candidate, "error", err)
			if waitErr := sleep(ctx, m.backoff); waitErr != nil {
				return 0, waitErr
			}
		}
	}
}

// Release forgets the assigned node when path is its registration, so the
// next Assign claims a fresh one. It reports whether anything was dropped.
func (m *Manager) Release(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.assigned || Path(m.processName, m.node) != path {
		return false
	}
	m.logger.Warn("node identity released", "node", m.node, "path", path)
	m.node = 0
	m.assigned = false
	return true
}

// Node returns the assigned node, if any.
func (m *Manager) Node() (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.node, m.assigned
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
