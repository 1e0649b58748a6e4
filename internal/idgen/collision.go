package idgen

import "sync"

// MaxIDPerMillisecond bounds the exponent space issued within one millisecond.
const MaxIDPerMillisecond = 1000

const bucketWords = (MaxIDPerMillisecond + 63) / 64

// CollisionChecker de-duplicates exponents issued within the same millisecond.
// Only one bucket is live at a time; moving to a later millisecond discards the
// previous bucket. Safe for concurrent use.
type CollisionChecker struct {
	mu      sync.Mutex
	current int64
	used    [bucketWords]uint64
}

// NewCollisionChecker returns a checker positioned at time zero.
func NewCollisionChecker() *CollisionChecker {
	return &CollisionChecker{}
}

// Reserve claims exponent for timeMs. It returns false when timeMs is older
// than the live bucket or the exponent was already claimed in it.
func (c *CollisionChecker) Reserve(timeMs int64, exponent int) bool {
	if exponent < 0 || exponent >= MaxIDPerMillisecond {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if timeMs < c.current {
		return false
	}

	if timeMs > c.current {
		c.current = timeMs
		c.used = [bucketWords]uint64{}
	}

	word, bit := exponent/64, uint64(1)<<(exponent%64)
	if c.used[word]&bit != 0 {
		return false
	}
	c.used[word] |= bit
	return true
}

// Release gives an exponent back to the live bucket. Releasing against a
// bucket that has already advanced is a no-op.
func (c *CollisionChecker) Release(timeMs int64, exponent int) {
	if exponent < 0 || exponent >= MaxIDPerMillisecond {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if timeMs != c.current {
		return
	}
	c.used[exponent/64] &^= uint64(1) << (exponent % 64)
}
