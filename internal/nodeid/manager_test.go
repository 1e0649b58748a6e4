package nodeid

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	nodemocks "github.com/joshuarp/idgen-api/internal/mock/nodeid"
	"github.com/joshuarp/idgen-api/internal/shared/coordinator"
)

type sequenceRandom struct {
	mu     sync.Mutex
	values []int
}

func newSequenceRandom(values ...int) *sequenceRandom {
	return &sequenceRandom{values: values}
}

// IntN replays the queued values and repeats the last one once drained.
func (r *sequenceRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	value := r.values[0]
	if len(r.values) > 1 {
		r.values = r.values[1:]
	}
	return value % n
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type ManagerSuite struct {
	suite.Suite

	registrar *nodemocks.Registrar
}

func (s *ManagerSuite) SetupTest() {
	s.registrar = nodemocks.NewRegistrar(s.T())
}

func (s *ManagerSuite) newManager(random *sequenceRandom) *Manager {
	manager, err := NewManager(s.registrar, "idgen",
		WithRandom(random),
		WithBackoff(time.Millisecond),
		WithLogger(newTestLogger()),
	)
	require.NoError(s.T(), err)
	return manager
}

func (s *ManagerSuite) TestNewManager_TableDriven() {
	tests := []struct {
		name        string
		registrar   Registrar
		processName string
		expectErr   string
	}{
		{name: "valid", registrar: s.registrar, processName: "idgen"},
		{name: "trims slashes", registrar: s.registrar, processName: " /idgen/ "},
		{name: "nil registrar", processName: "idgen", expectErr: "registrar is required"},
		{name: "blank process name", registrar: s.registrar, processName: " / ", expectErr: "process name is required"},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			manager, err := NewManager(tc.registrar, tc.processName)
			if tc.expectErr != "" {
				assert.ErrorContains(s.T(), err, tc.expectErr)
				return
			}
			require.NoError(s.T(), err)
			assert.Equal(s.T(), "idgen", manager.processName)
		})
	}
}

func (s *ManagerSuite) TestPath() {
	assert.Equal(s.T(), "/idgen/nodes/0007", Path("idgen", 7))
	assert.Equal(s.T(), "/idgen/nodes/9999", Path("idgen", 9999))
}

func (s *ManagerSuite) TestAssign_TableDriven() {
	coordinatorErr := errors.New("connection reset")

	tests := []struct {
		name      string
		random    *sequenceRandom
		setupMock func()
		expect    int
		expectErr error
	}{
		{
			name:   "first candidate free",
			random: newSequenceRandom(42),
			setupMock: func() {
				s.registrar.EXPECT().BlockUntilConnected(mock.Anything).Return(nil)
				s.registrar.EXPECT().CreateExclusiveEphemeral(mock.Anything, "/idgen/nodes/0042").Return(nil)
			},
			expect: 42,
		},
		{
			name:   "collision picks a new candidate",
			random: newSequenceRandom(1, 2, 3),
			setupMock: func() {
				s.registrar.EXPECT().BlockUntilConnected(mock.Anything).Return(nil)
				s.registrar.EXPECT().CreateExclusiveEphemeral(mock.Anything, "/idgen/nodes/0001").Return(coordinator.ErrNodeExists)
				s.registrar.EXPECT().CreateExclusiveEphemeral(mock.Anything, "/idgen/nodes/0002").Return(coordinator.ErrNodeExists)
				s.registrar.EXPECT().CreateExclusiveEphemeral(mock.Anything, "/idgen/nodes/0003").Return(nil)
			},
			expect: 3,
		},
		{
			name:   "coordinator error backs off and retries",
			random: newSequenceRandom(5, 6),
			setupMock: func() {
				s.registrar.EXPECT().BlockUntilConnected(mock.Anything).Return(nil)
				s.registrar.EXPECT().CreateExclusiveEphemeral(mock.Anything, "/idgen/nodes/0005").Return(coordinatorErr)
				s.registrar.EXPECT().CreateExclusiveEphemeral(mock.Anything, "/idgen/nodes/0006").Return(nil)
			},
			expect: 6,
		},
		{
			name:   "not connected",
			random: newSequenceRandom(1),
			setupMock: func() {
				s.registrar.EXPECT().BlockUntilConnected(mock.Anything).Return(context.DeadlineExceeded)
			},
			expectErr: context.DeadlineExceeded,
		},
		{
			name:   "cancelled during registration",
			random: newSequenceRandom(1),
			setupMock: func() {
				s.registrar.EXPECT().BlockUntilConnected(mock.Anything).Return(nil)
				s.registrar.EXPECT().CreateExclusiveEphemeral(mock.Anything, "/idgen/nodes/0001").Return(context.Canceled)
			},
			expectErr: context.Canceled,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setupMock()
			manager := s.newManager(tc.random)

			node, err := manager.Assign(context.Background())
			if tc.expectErr != nil {
				assert.ErrorIs(s.T(), err, tc.expectErr)
				_, ok := manager.Node()
				assert.False(s.T(), ok)
				return
			}
			require.NoError(s.T(), err)
			assert.Equal(s.T(), tc.expect, node)

			stored, ok := manager.Node()
			assert.True(s.T(), ok)
			assert.Equal(s.T(), tc.expect, stored)
		})
	}
}

func (s *ManagerSuite) TestAssign_WaitErrorIsWrapped() {
	s.registrar.EXPECT().BlockUntilConnected(mock.Anything).Return(coordinator.ErrClosed)

	_, err := s.newManager(newSequenceRandom(1)).Assign(context.Background())
	assert.ErrorIs(s.T(), err, coordinator.ErrClosed)
	assert.ErrorContains(s.T(), err, "waiting for coordinator")
}

func (s *ManagerSuite) TestAssign_IsIdempotent() {
	s.registrar.EXPECT().BlockUntilConnected(mock.Anything).Return(nil).Once()
	s.registrar.EXPECT().CreateExclusiveEphemeral(mock.Anything, "/idgen/nodes/0011").Return(nil).Once()

	manager := s.newManager(newSequenceRandom(11, 12))

	first, err := manager.Assign(context.Background())
	require.NoError(s.T(), err)
	second, err := manager.Assign(context.Background())
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 11, first)
	assert.Equal(s.T(), first, second)
}

func (s *ManagerSuite) TestAssign_StopsWhenContextEndsDuringBackoff() {
	ctx, cancel := context.WithCancel(context.Background())

	s.registrar.EXPECT().BlockUntilConnected(mock.Anything).Return(nil)
	s.registrar.EXPECT().
		CreateExclusiveEphemeral(mock.Anything, "/idgen/nodes/0001").
		Run(func(context.Context, string) { cancel() }).
		Return(errors.New("timeout"))

	manager, err := NewManager(s.registrar, "idgen",
		WithRandom(newSequenceRandom(1)),
		WithBackoff(time.Hour),
		WithLogger(newTestLogger()),
	)
	require.NoError(s.T(), err)

	_, err = manager.Assign(ctx)
	assert.ErrorIs(s.T(), err, context.Canceled)
}

func (s *ManagerSuite) TestAssign_ProcessesSharingAStoreGetDistinctNodes() {
	store := coordinator.NewMemoryStore()
	random := newSequenceRandom(7, 7, 9)

	first, err := NewManager(store, "idgen", WithRandom(random), WithLogger(newTestLogger()))
	require.NoError(s.T(), err)
	second, err := NewManager(store, "idgen", WithRandom(random), WithLogger(newTestLogger()))
	require.NoError(s.T(), err)

	a, err := first.Assign(context.Background())
	require.NoError(s.T(), err)
	b, err := second.Assign(context.Background())
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 7, a)
	assert.Equal(s.T(), 9, b)
	assert.True(s.T(), store.Holds(Path("idgen", 7)))
	assert.True(s.T(), store.Holds(Path("idgen", 9)))
}

func (s *ManagerSuite) TestRelease_TableDriven() {
	tests := []struct {
		name   string
		path   string
		expect bool
	}{
		{name: "own registration", path: Path("idgen", 7), expect: true},
		{name: "another node", path: Path("idgen", 8), expect: false},
		{name: "another process", path: Path("billing", 7), expect: false},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			store := coordinator.NewMemoryStore()
			manager, err := NewManager(store, "idgen", WithRandom(newSequenceRandom(7, 9)), WithLogger(newTestLogger()))
			require.NoError(s.T(), err)

			_, err = manager.Assign(context.Background())
			require.NoError(s.T(), err)

			assert.Equal(s.T(), tc.expect, manager.Release(tc.path))
			_, assigned := manager.Node()
			assert.Equal(s.T(), !tc.expect, assigned)

			if tc.expect {
				node, err := manager.Assign(context.Background())
				require.NoError(s.T(), err)
				assert.Equal(s.T(), 9, node)
			}
		})
	}
}

// cycleRandom walks 0..size-1 in order, starting over at the end.
type cycleRandom struct {
	mu   sync.Mutex
	size int
	next int
}

func (r *cycleRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	value := r.next % r.size
	r.next++
	return value % n
}

func (s *ManagerSuite) TestAssign_RacingProcessesGetDistinctNodes() {
	const processes = 16

	store := coordinator.NewMemoryStore()
	managers := make([]*Manager, processes)
	for i := range managers {
		manager, err := NewManager(store, "idgen",
			WithRandom(&cycleRandom{size: processes}),
			WithBackoff(time.Millisecond),
			WithLogger(newTestLogger()),
		)
		require.NoError(s.T(), err)
		managers[i] = manager
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		start sync.WaitGroup
		done  sync.WaitGroup
	)
	start.Add(1)
	nodes := make([]int, processes)
	errs := make([]error, processes)
	for i, manager := range managers {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			nodes[i], errs[i] = manager.Assign(ctx)
		}()
	}
	start.Done()
	done.Wait()

	seen := make(map[int]struct{}, processes)
	for i := range managers {
		require.NoError(s.T(), errs[i])
		_, duplicate := seen[nodes[i]]
		assert.False(s.T(), duplicate, "node %d assigned twice", nodes[i])
		seen[nodes[i]] = struct{}{}
		assert.True(s.T(), store.Holds(Path("idgen", nodes[i])))
	}
	assert.Len(s.T(), seen, processes)
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}
