package idgen

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultRetryCount is the attempt budget for constrained generation.
	DefaultRetryCount = 512

	// RetryCountEnv overrides DefaultRetryCount when set.
	RetryCountEnv = "NUM_ID_GENERATION_RETRIES"

	spinLimit   = MaxIDPerMillisecond
	spinBackoff = 50 * time.Microsecond
)

// Nonce is the raw uniqueness tuple behind one identifier.
type Nonce struct {
	TimeMs   int64
	Exponent int
}

// Clock supplies wall-clock readings.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Random returns a non-negative pseudo-random int in [0, n).
type Random interface {
	IntN(n int) int
}

type lockedRandom struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSecureRandom returns a ChaCha8 stream seeded from the OS entropy source.
// Safe for concurrent use.
func NewSecureRandom() Random {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic(fmt.Sprintf("idgen: failed to seed random source: %v", err))
	}
	return &lockedRandom{rnd: rand.New(rand.NewChaCha8(seed))}
}

func (r *lockedRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.IntN(n)
}

// NonceGenerator issues (time, exponent) pairs that are unique per Domain.
type NonceGenerator struct {
	clock      Clock
	random     Random
	retryCount int
}

// NonceOption configures a NonceGenerator.
type NonceOption func(*NonceGenerator)

// WithClock overrides the time source.
func WithClock(clock Clock) NonceOption {
	return func(g *NonceGenerator) {
		g.clock = clock
	}
}

// WithRandom overrides the exponent entropy source.
func WithRandom(random Random) NonceOption {
	return func(g *NonceGenerator) {
		g.random = random
	}
}

// WithRetryCount sets the attempt budget exposed through RetryCount.
func WithRetryCount(count int) NonceOption {
	return func(g *NonceGenerator) {
		g.retryCount = count
	}
}

// NewNonceGenerator builds a generator. The retry count defaults to
// DefaultRetryCount and must be positive.
func NewNonceGenerator(opts ...NonceOption) (*NonceGenerator, error) {
	g := &NonceGenerator{
		clock:      SystemClock{},
		retryCount: DefaultRetryCount,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.retryCount <= 0 {
		return nil, fmt.Errorf("idgen: retry count must be positive, got %d", g.retryCount)
	}

	if g.random == nil {
		g.random = NewSecureRandom()
	}

	return g, nil
}

// RetryCountFromEnv reads RetryCountEnv, falling back to DefaultRetryCount
// when it is unset.
func RetryCountFromEnv() (int, error) {
	raw, ok := os.LookupEnv(RetryCountEnv)
	if !ok || strings.TrimSpace(raw) == "" {
		return DefaultRetryCount, nil
	}

	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("idgen: %s must be a positive integer: %w", RetryCountEnv, err)
	}
	if count <= 0 {
		return 0, fmt.Errorf("idgen: %s must be a positive integer, got %d", RetryCountEnv, count)
	}

	return count, nil
}

// RetryCount is the number of attempts constrained generation may take.
func (g *NonceGenerator) RetryCount() int {
	return g.retryCount
}

// Generate spins until the Domain's checker accepts a fresh pair. Once the
// exponent space looks saturated it yields, then backs off, so a full
// millisecond costs latency instead of burning a core.
func (g *NonceGenerator) Generate(domain *Domain) Nonce {
	checker := domain.Checker()

	for spins := 1; ; spins++ {
		now := g.clock.Now().UnixMilli()
		exponent := g.random.IntN(MaxIDPerMillisecond)
		if checker.Reserve(now, exponent) {
			return Nonce{TimeMs: now, Exponent: exponent}
		}

		if spins%spinLimit == 0 {
			if spins == spinLimit {
				runtime.Gosched()
			} else {
				time.Sleep(spinBackoff)
			}
		}
	}
}

// Release returns a nonce that failed validation to its Domain.
func (g *NonceGenerator) Release(nonce Nonce, domain *Domain) {
	domain.Checker().Release(nonce.TimeMs, nonce.Exponent)
}
