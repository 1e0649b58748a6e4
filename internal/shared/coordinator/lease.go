package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// refreshFunc extends the lease on path. It reports false once the lease no
// longer belongs to this session.
type refreshFunc func(ctx context.Context, path string) (bool, error)

// leaseKeeper tracks the paths a session holds and keeps their leases alive
// from a single background goroutine.
type leaseKeeper struct {
	interval time.Duration
	refresh  refreshFunc
	logger   *slog.Logger

	mu      sync.Mutex
	paths   map[string]struct{}
	lost    []func(path string)
	started bool
	closed  bool
	stop    chan struct{}
	done    chan struct{}
}

func newLeaseKeeper(interval time.Duration, refresh refreshFunc, logger *slog.Logger) *leaseKeeper {
	return &leaseKeeper{
		interval: interval,
		refresh:  refresh,
		logger:   logger,
		paths:    make(map[string]struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (k *leaseKeeper) track(path string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return ErrClosed
	}

	k.paths[path] = struct{}{}
	if !k.started {
		k.started = true
		go k.run()
	}
	return nil
}

func (k *leaseKeeper) held() []string {
	k.mu.Lock()
	defer k.mu.Unlock()

	paths := make([]string, 0, len(k.paths))
	for path := range k.paths {
		paths = append(paths, path)
	}
	return paths
}

func (k *leaseKeeper) forget(path string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.paths, path)
}

func (k *leaseKeeper) onLost(fn func(path string)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.lost = append(k.lost, fn)
}

func (k *leaseKeeper) lostCallbacks() []func(path string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]func(path string){}, k.lost...)
}

func (k *leaseKeeper) isClosed() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.closed
}

// close stops the refresher and returns the paths still held.
func (k *leaseKeeper) close() []string {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	started := k.started
	close(k.stop)
	k.mu.Unlock()

	if started {
		<-k.done
	}
	return k.held()
}

func (k *leaseKeeper) run() {
	defer close(k.done)

	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-k.stop:
			return
		case <-ticker.C:
			k.refreshAll()
		}
	}
}

func (k *leaseKeeper) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), k.interval)
	defer cancel()

	for _, path := range k.held() {
		owned, err := k.refresh(ctx, path)
		if err != nil {
			k.logger.Error("lease refresh failed", "path", path, "error", err)
			continue
		}
		if !owned {
			k.logger.Error("lease lost", "path", path)
			k.forget(path)
			for _, fn := range k.lostCallbacks() {
				fn(path)
			}
		}
	}
}
