package idgen

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CollisionCheckerSuite struct {
	suite.Suite

	checker *CollisionChecker
}

func (s *CollisionCheckerSuite) SetupTest() {
	s.checker = NewCollisionChecker()
}

func (s *CollisionCheckerSuite) TestReserve_TableDriven() {
	tests := []struct {
		name     string
		setup    func()
		timeMs   int64
		exponent int
		expect   bool
	}{
		{
			name:     "first reservation succeeds",
			timeMs:   1_000,
			exponent: 42,
			expect:   true,
		},
		{
			name: "same pair twice is rejected",
			setup: func() {
				s.checker.Reserve(1_000, 42)
			},
			timeMs:   1_000,
			exponent: 42,
			expect:   false,
		},
		{
			name: "different exponent in same bucket succeeds",
			setup: func() {
				s.checker.Reserve(1_000, 42)
			},
			timeMs:   1_000,
			exponent: 43,
			expect:   true,
		},
		{
			name: "later bucket accepts previously used exponent",
			setup: func() {
				s.checker.Reserve(1_000, 42)
				s.checker.Reserve(1_000, 7)
			},
			timeMs:   1_001,
			exponent: 42,
			expect:   true,
		},
		{
			name: "earlier bucket is rejected for any exponent",
			setup: func() {
				s.checker.Reserve(2_000, 1)
			},
			timeMs:   1_999,
			exponent: 999,
			expect:   false,
		},
		{
			name:     "exponent above range is rejected",
			timeMs:   1_000,
			exponent: MaxIDPerMillisecond,
			expect:   false,
		},
		{
			name:     "negative exponent is rejected",
			timeMs:   1_000,
			exponent: -1,
			expect:   false,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			if tc.setup != nil {
				tc.setup()
			}

			assert.Equal(s.T(), tc.expect, s.checker.Reserve(tc.timeMs, tc.exponent))
		})
	}
}

func (s *CollisionCheckerSuite) TestRelease_TableDriven() {
	tests := []struct {
		name   string
		setup  func()
		expect bool
	}{
		{
			name: "released slot can be reserved again",
			setup: func() {
				s.checker.Reserve(5_000, 10)
				s.checker.Release(5_000, 10)
			},
			expect: true,
		},
		{
			name: "release against stale bucket is a no-op",
			setup: func() {
				s.checker.Reserve(5_000, 10)
				s.checker.Reserve(5_001, 11)
				s.checker.Release(5_000, 10)
			},
			expect: false,
		},
		{
			name: "release of unused exponent is harmless",
			setup: func() {
				s.checker.Reserve(5_000, 10)
				s.checker.Release(5_000, 20)
			},
			expect: false,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setup()

			// the stale-bucket case has advanced to 5_001, so 5_000 stays closed
			assert.Equal(s.T(), tc.expect, s.checker.Reserve(5_000, 10))
		})
	}
}

func (s *CollisionCheckerSuite) TestReserve_ExhaustsBucket() {
	for exponent := 0; exponent < MaxIDPerMillisecond; exponent++ {
		s.Require().True(s.checker.Reserve(9_000, exponent))
	}

	for exponent := 0; exponent < MaxIDPerMillisecond; exponent++ {
		s.Require().False(s.checker.Reserve(9_000, exponent))
	}

	assert.True(s.T(), s.checker.Reserve(9_001, 0))
}

func (s *CollisionCheckerSuite) TestReserve_ConcurrentCallersNeverShareASlot() {
	const workers = 16

	var accepted atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for exponent := 0; exponent < MaxIDPerMillisecond; exponent++ {
				if s.checker.Reserve(7_000, exponent) {
					accepted.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(s.T(), int64(MaxIDPerMillisecond), accepted.Load())
}

func TestCollisionCheckerSuite(t *testing.T) {
	suite.Run(t, new(CollisionCheckerSuite))
}
