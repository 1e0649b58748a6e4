package coordinator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testPath = "/idgen/nodes/0042"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSQLXMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mockDB, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return sqlx.NewDb(sqlDB, "sqlmock"), mockDB
}

func TestNew_TableDriven(t *testing.T) {
	db, _ := newSQLXMock(t)
	client, _ := redismock.NewClientMock()

	tests := []struct {
		name      string
		opts      Options
		expectErr string
	}{
		{name: "memory", opts: Options{Strategy: StrategyMemory}},
		{name: "redis", opts: Options{Strategy: StrategyRedis, Redis: client, Owner: "owner-1"}},
		{name: "postgres", opts: Options{Strategy: StrategyPostgres, DB: db, Owner: "owner-1"}},
		{name: "redis without client", opts: Options{Strategy: StrategyRedis, Owner: "owner-1"}, expectErr: "redis client is required"},
		{name: "redis without owner", opts: Options{Strategy: StrategyRedis, Redis: client}, expectErr: "owner is required"},
		{name: "postgres without db", opts: Options{Strategy: StrategyPostgres, Owner: "owner-1"}, expectErr: "database is required"},
		{
			name:      "refresh slower than lease",
			opts:      Options{Strategy: StrategyPostgres, DB: db, Owner: "owner-1", LeaseTTL: time.Second, RefreshInterval: time.Second},
			expectErr: "must be shorter than lease ttl",
		},
		{name: "unknown", opts: Options{Strategy: "zookeeper"}, expectErr: "unknown strategy"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			coordinator, err := New(tc.opts)
			if tc.expectErr != "" {
				assert.ErrorContains(t, err, tc.expectErr)
				assert.Nil(t, coordinator)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, coordinator)
		})
	}
}

type SQLXStoreSuite struct {
	suite.Suite

	mockDB sqlmock.Sqlmock
	store  *SQLXStore
}

func (s *SQLXStoreSuite) SetupTest() {
	db, mockDB := newSQLXMock(s.T())
	store, err := NewSQLXStore(Options{
		DB:          db,
		Owner:       "owner-1",
		LeaseTTL:    30 * time.Second,
		ConnectPoll: time.Millisecond,
		Logger:      newTestLogger(),
	})
	require.NoError(s.T(), err)

	s.mockDB = mockDB
	s.store = store
}

func (s *SQLXStoreSuite) TearDownTest() {
	assert.NoError(s.T(), s.mockDB.ExpectationsWereMet())
}

func (s *SQLXStoreSuite) TestCreateExclusiveEphemeral_TableDriven() {
	dbErr := errors.New("connection reset")

	tests := []struct {
		name      string
		setupMock func()
		assertion func(error)
	}{
		{
			name: "creates fresh lease",
			setupMock: func() {
				s.mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO node_leases")).
					WithArgs(testPath, "owner-1", int64(30_000)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			assertion: func(err error) {
				require.NoError(s.T(), err)
				assert.Equal(s.T(), []string{testPath}, s.store.leases.held())
			},
		},
		{
			name: "live lease owned elsewhere",
			setupMock: func() {
				s.mockDB.ExpectExec(regexp.QuoteMeta("ON CONFLICT (path) DO UPDATE")).
					WithArgs(testPath, "owner-1", int64(30_000)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			assertion: func(err error) {
				assert.ErrorIs(s.T(), err, ErrNodeExists)
				assert.Empty(s.T(), s.store.leases.held())
			},
		},
		{
			name: "wraps database errors",
			setupMock: func() {
				s.mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO node_leases")).
					WithArgs(testPath, "owner-1", int64(30_000)).
					WillReturnError(dbErr)
			},
			assertion: func(err error) {
				assert.ErrorIs(s.T(), err, dbErr)
				assert.NotErrorIs(s.T(), err, ErrNodeExists)
				assert.ErrorContains(s.T(), err, "create lease")
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setupMock()

			tc.assertion(s.store.CreateExclusiveEphemeral(context.Background(), testPath))
		})
	}
}

func (s *SQLXStoreSuite) TestRefresh_ReportsOwnership() {
	s.mockDB.ExpectExec(regexp.QuoteMeta("UPDATE node_leases")).
		WithArgs(testPath, "owner-1", int64(30_000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mockDB.ExpectExec(regexp.QuoteMeta("UPDATE node_leases")).
		WithArgs(testPath, "owner-1", int64(30_000)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	owned, err := s.store.refresh(context.Background(), testPath)
	require.NoError(s.T(), err)
	assert.True(s.T(), owned)

	owned, err = s.store.refresh(context.Background(), testPath)
	require.NoError(s.T(), err)
	assert.False(s.T(), owned)
}

func (s *SQLXStoreSuite) TestClose_ReleasesHeldLeases() {
	s.mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO node_leases")).
		WithArgs(testPath, "owner-1", int64(30_000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM node_leases")).
		WithArgs("owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(s.T(), s.store.CreateExclusiveEphemeral(context.Background(), testPath))
	require.NoError(s.T(), s.store.Close())

	assert.ErrorIs(s.T(), s.store.CreateExclusiveEphemeral(context.Background(), testPath), ErrClosed)
	assert.NoError(s.T(), s.store.Close())
}

func (s *SQLXStoreSuite) TestBlockUntilConnected_RetriesPing() {
	s.mockDB.ExpectPing().WillReturnError(errors.New("starting up"))
	s.mockDB.ExpectPing()

	assert.NoError(s.T(), s.store.BlockUntilConnected(context.Background()))
}

func (s *SQLXStoreSuite) TestBlockUntilConnected_HonoursContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(s.T(), s.store.BlockUntilConnected(ctx), context.Canceled)
}

func TestSQLXStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLXStoreSuite))
}

type RedisStoreSuite struct {
	suite.Suite

	client *redis.Client
	mock   redismock.ClientMock
	store  *RedisStore
}

func (s *RedisStoreSuite) SetupTest() {
	s.client, s.mock = redismock.NewClientMock()

	store, err := NewRedisStore(Options{
		Redis:       s.client,
		Owner:       "owner-1",
		KeyPrefix:   "idgen",
		LeaseTTL:    30 * time.Second,
		ConnectPoll: time.Millisecond,
		Logger:      newTestLogger(),
	})
	require.NoError(s.T(), err)
	s.store = store
}

func (s *RedisStoreSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *RedisStoreSuite) TestCreateExclusiveEphemeral_TableDriven() {
	key := "idgen:" + testPath

	tests := []struct {
		name      string
		setupMock func()
		assertion func(error)
	}{
		{
			name: "creates key",
			setupMock: func() {
				s.mock.ExpectSetNX(key, "owner-1", 30*time.Second).SetVal(true)
			},
			assertion: func(err error) {
				require.NoError(s.T(), err)
				assert.Equal(s.T(), []string{testPath}, s.store.leases.held())
			},
		},
		{
			name: "key held by another session",
			setupMock: func() {
				s.mock.ExpectSetNX(key, "owner-1", 30*time.Second).SetVal(false)
			},
			assertion: func(err error) {
				assert.ErrorIs(s.T(), err, ErrNodeExists)
				assert.Empty(s.T(), s.store.leases.held())
			},
		},
		{
			name: "wraps redis errors",
			setupMock: func() {
				s.mock.ExpectSetNX(key, "owner-1", 30*time.Second).SetErr(errors.New("READONLY"))
			},
			assertion: func(err error) {
				assert.ErrorContains(s.T(), err, "READONLY")
				assert.NotErrorIs(s.T(), err, ErrNodeExists)
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setupMock()

			tc.assertion(s.store.CreateExclusiveEphemeral(context.Background(), testPath))
		})
	}
}

func (s *RedisStoreSuite) TestRefresh_ChecksOwner() {
	key := "idgen:" + testPath
	s.mock.ExpectEval(refreshScript, []string{key}, "owner-1", int64(30_000)).SetVal(int64(1))
	s.mock.ExpectEval(refreshScript, []string{key}, "owner-1", int64(30_000)).SetVal(int64(0))

	owned, err := s.store.refresh(context.Background(), testPath)
	require.NoError(s.T(), err)
	assert.True(s.T(), owned)

	owned, err = s.store.refresh(context.Background(), testPath)
	require.NoError(s.T(), err)
	assert.False(s.T(), owned)
}

func (s *RedisStoreSuite) TestClose_ReleasesOwnedKeys() {
	key := "idgen:" + testPath
	s.mock.ExpectSetNX(key, "owner-1", 30*time.Second).SetVal(true)
	s.mock.ExpectEval(releaseScript, []string{key}, "owner-1").SetVal(int64(1))

	require.NoError(s.T(), s.store.CreateExclusiveEphemeral(context.Background(), testPath))
	require.NoError(s.T(), s.store.Close())

	assert.ErrorIs(s.T(), s.store.CreateExclusiveEphemeral(context.Background(), testPath), ErrClosed)
}

func (s *RedisStoreSuite) TestBlockUntilConnected_RetriesPing() {
	s.mock.ExpectPing().SetErr(errors.New("LOADING"))
	s.mock.ExpectPing().SetVal("PONG")

	assert.NoError(s.T(), s.store.BlockUntilConnected(context.Background()))
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.BlockUntilConnected(ctx))
	require.NoError(t, store.CreateExclusiveEphemeral(ctx, testPath))
	assert.ErrorIs(t, store.CreateExclusiveEphemeral(ctx, testPath), ErrNodeExists)
	assert.True(t, store.Holds(testPath))

	store.Expire(testPath)
	assert.False(t, store.Holds(testPath))
	require.NoError(t, store.CreateExclusiveEphemeral(ctx, testPath))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.CreateExclusiveEphemeral(cancelled, "/other"), context.Canceled)
	assert.False(t, store.Holds("/other"))

	require.NoError(t, store.Close())
	assert.ErrorIs(t, store.CreateExclusiveEphemeral(ctx, testPath), ErrClosed)
}

func TestMemoryStore_ExpireNotifiesLostLease(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var lost []string
	store.OnLeaseLost(func(path string) { lost = append(lost, path) })

	require.NoError(t, store.CreateExclusiveEphemeral(ctx, testPath))
	store.Expire("/never-held")
	store.Expire(testPath)

	assert.Equal(t, []string{testPath}, lost)
}

func TestLeaseKeeper_NotifiesLostLeases(t *testing.T) {
	lost := make(chan string, 1)
	keeper := newLeaseKeeper(5*time.Millisecond, func(_ context.Context, path string) (bool, error) {
		return path != "/lost", nil
	}, newTestLogger())
	keeper.onLost(func(path string) { lost <- path })

	require.NoError(t, keeper.track("/kept"))
	require.NoError(t, keeper.track("/lost"))

	select {
	case path := <-lost:
		assert.Equal(t, "/lost", path)
	case <-time.After(time.Second):
		t.Fatal("lost lease was not reported")
	}

	assert.Equal(t, []string{"/kept"}, keeper.close())
}

func TestLeaseKeeper_ForgetsLostLeases(t *testing.T) {
	var refreshes atomic.Int64
	keeper := newLeaseKeeper(5*time.Millisecond, func(_ context.Context, path string) (bool, error) {
		refreshes.Add(1)
		return path != "/lost", nil
	}, newTestLogger())

	require.NoError(t, keeper.track("/kept"))
	require.NoError(t, keeper.track("/lost"))

	require.Eventually(t, func() bool {
		return len(keeper.held()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"/kept"}, keeper.close())
	assert.Positive(t, refreshes.Load())
	assert.ErrorIs(t, keeper.track("/late"), ErrClosed)
}
