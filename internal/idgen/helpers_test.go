package idgen

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(now time.Time) *fixedClock {
	return &fixedClock{now: now}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequenceRandom replays values modulo n, cycling once exhausted.
type sequenceRandom struct {
	mu     sync.Mutex
	values []int
	next   int
}

func newSequenceRandom(values ...int) *sequenceRandom {
	return &sequenceRandom{values: values}
}

func (r *sequenceRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	value := r.values[r.next%len(r.values)] % n
	r.next++
	return value
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
