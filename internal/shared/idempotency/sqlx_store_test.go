package idempotency

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func newSQLXMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mockDB, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return sqlx.NewDb(sqlDB, "sqlmock"), mockDB
}

var rowColumns = []string{"request_hash", "status", "response_status", "response_body", "response_content_type", "locked_until"}

type SQLXStoreSuite struct {
	suite.Suite

	mockDB  sqlmock.Sqlmock
	store   *SQLXStore
	now     time.Time
	request Request
}

func (s *SQLXStoreSuite) SetupTest() {
	db, mockDB := newSQLXMock(s.T())
	s.now = time.Date(2024, 7, 10, 12, 32, 33, 0, time.UTC)
	s.mockDB = mockDB
	s.store = NewSQLXStore(db)
	s.store.now = func() time.Time { return s.now }
	s.request = Request{Scope: "ids:client-1", Key: " idem-1 ", RequestHash: "hash-1"}
}

func (s *SQLXStoreSuite) TearDownTest() {
	assert.NoError(s.T(), s.mockDB.ExpectationsWereMet())
}

func (s *SQLXStoreSuite) expectSelect() *sqlmock.ExpectedQuery {
	return s.mockDB.ExpectQuery(regexp.QuoteMeta("FROM id_idempotency")).
		WithArgs("ids:client-1", "idem-1")
}

func (s *SQLXStoreSuite) TestAcquire_TableDriven() {
	queryErr := errors.New("db down")

	tests := []struct {
		name      string
		setupMock func()
		assertion func(Decision, error)
	}{
		{
			name: "first request acquires",
			setupMock: func() {
				s.mockDB.ExpectBegin()
				s.expectSelect().WillReturnRows(sqlmock.NewRows(rowColumns))
				s.mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO id_idempotency")).
					WithArgs("ids:client-1", "idem-1", "hash-1", s.now.Add(defaultLockTTL)).
					WillReturnResult(sqlmock.NewResult(1, 1))
				s.mockDB.ExpectCommit()
			},
			assertion: func(decision Decision, err error) {
				require.NoError(s.T(), err)
				assert.Equal(s.T(), DecisionAcquired, decision.Type)
			},
		},
		{
			name: "different payload conflicts",
			setupMock: func() {
				s.mockDB.ExpectBegin()
				s.expectSelect().WillReturnRows(sqlmock.NewRows(rowColumns).
					AddRow("hash-other", "in_progress", nil, nil, nil, s.now.Add(time.Minute)))
				s.mockDB.ExpectCommit()
			},
			assertion: func(decision Decision, err error) {
				require.NoError(s.T(), err)
				assert.Equal(s.T(), DecisionConflict, decision.Type)
			},
		},
		{
			name: "completed request replays",
			setupMock: func() {
				s.mockDB.ExpectBegin()
				s.expectSelect().WillReturnRows(sqlmock.NewRows(rowColumns).
					AddRow("hash-1", "completed", int64(201), []byte(`{"id":"0124"}`), "application/json", s.now))
				s.mockDB.ExpectCommit()
			},
			assertion: func(decision Decision, err error) {
				require.NoError(s.T(), err)
				assert.Equal(s.T(), DecisionReplay, decision.Type)
				assert.Equal(s.T(), 201, decision.StatusCode)
				assert.JSONEq(s.T(), `{"id":"0124"}`, string(decision.Body))
				assert.Equal(s.T(), "application/json", decision.ContentType)
			},
		},
		{
			name: "locked request is in progress",
			setupMock: func() {
				s.mockDB.ExpectBegin()
				s.expectSelect().WillReturnRows(sqlmock.NewRows(rowColumns).
					AddRow("hash-1", "in_progress", nil, nil, nil, s.now.Add(time.Second)))
				s.mockDB.ExpectCommit()
			},
			assertion: func(decision Decision, err error) {
				require.NoError(s.T(), err)
				assert.Equal(s.T(), DecisionInProgress, decision.Type)
			},
		},
		{
			name: "expired lock is reacquired",
			setupMock: func() {
				s.mockDB.ExpectBegin()
				s.expectSelect().WillReturnRows(sqlmock.NewRows(rowColumns).
					AddRow("hash-1", "in_progress", nil, nil, nil, s.now.Add(-time.Second)))
				s.mockDB.ExpectExec(regexp.QuoteMeta("UPDATE id_idempotency")).
					WithArgs("ids:client-1", "idem-1", s.now.Add(defaultLockTTL)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				s.mockDB.ExpectCommit()
			},
			assertion: func(decision Decision, err error) {
				require.NoError(s.T(), err)
				assert.Equal(s.T(), DecisionAcquired, decision.Type)
			},
		},
		{
			name: "query failure rolls back",
			setupMock: func() {
				s.mockDB.ExpectBegin()
				s.expectSelect().WillReturnError(queryErr)
				s.mockDB.ExpectRollback()
			},
			assertion: func(_ Decision, err error) {
				assert.ErrorIs(s.T(), err, queryErr)
				assert.ErrorContains(s.T(), err, "failed to query key")
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setupMock()
			tc.assertion(s.store.Acquire(context.Background(), s.request))
			assert.NoError(s.T(), s.mockDB.ExpectationsWereMet())
		})
	}
}

func (s *SQLXStoreSuite) TestAcquire_RejectsIncompleteRequest() {
	tests := []struct {
		name      string
		request   Request
		expectErr string
	}{
		{name: "scope", request: Request{Key: "k", RequestHash: "h"}, expectErr: "scope is required"},
		{name: "key", request: Request{Scope: "s", Key: "  ", RequestHash: "h"}, expectErr: "key is required"},
		{name: "hash", request: Request{Scope: "s", Key: "k"}, expectErr: "request hash is required"},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			_, err := s.store.Acquire(context.Background(), tc.request)
			assert.ErrorContains(s.T(), err, tc.expectErr)
			assert.ErrorContains(s.T(), s.store.Complete(context.Background(), tc.request, StoredResponse{}), tc.expectErr)
		})
	}
}

func (s *SQLXStoreSuite) TestComplete() {
	response := StoredResponse{StatusCode: 201, Body: []byte(`{}`), ContentType: " application/json "}

	s.mockDB.ExpectExec(regexp.QuoteMeta("UPDATE id_idempotency")).
		WithArgs("ids:client-1", "idem-1", "hash-1", 201, []byte(`{}`), "application/json").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mockDB.ExpectExec(regexp.QuoteMeta("UPDATE id_idempotency")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(s.T(), s.store.Complete(context.Background(), s.request, response))
	assert.ErrorIs(s.T(), s.store.Complete(context.Background(), s.request, response), ErrNotFound)
}

func (s *SQLXStoreSuite) TestWithTable() {
	db, mockDB := newSQLXMock(s.T())
	store := NewSQLXStore(db, WithTable("edge_idempotency"))

	mockDB.ExpectExec(regexp.QuoteMeta("UPDATE edge_idempotency")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(s.T(), store.Complete(context.Background(), s.request, StoredResponse{StatusCode: 200}))
	assert.NoError(s.T(), mockDB.ExpectationsWereMet())
}

func (s *SQLXStoreSuite) TestUninitialised() {
	var store *SQLXStore
	_, err := store.Acquire(context.Background(), s.request)
	assert.ErrorContains(s.T(), err, "not initialized")
}

func TestSQLXStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLXStoreSuite))
}
