package docstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*MySQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMySQL(db), mock
}

func TestMySQLCommitUsesOneTransaction(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE data = VALUES(data)")).
		WithArgs("route_codes/1_HKI/routes/10_1", "route_codes/1_HKI/routes", "10_1", `{"route_id":10}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("JSON_MERGE_PATCH(data, VALUES(data))")).
		WithArgs("route_codes/1_HKI", "route_codes", "1_HKI", `{"route_ids":["10_1"]}`).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	b := store.Batch()
	b.Set("route_codes/1_HKI/routes/10_1", map[string]any{"route_id": 10})
	b.Merge("route_codes/1_HKI", map[string]any{"route_ids": []string{"10_1"}})
	require.NoError(t, b.Commit(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCommitRollsBackOnFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO documents").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO documents").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	b := store.Batch()
	b.Set("stops/1", map[string]any{"stop_id": 1})
	b.Set("stops/2", map[string]any{"stop_id": 2})
	err := b.Commit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadlock")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCommitRejectsInvalidBatchBeforeBegin(t *testing.T) {
	store, mock := newMockStore(t)

	b := store.Batch()
	b.Set("stops/1", map[string]any{"stop_id": 1})
	b.Set("stops", map[string]any{"stop_id": 2})
	require.Error(t, b.Commit(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLEmptyBatchIsNoop(t *testing.T) {
	store, mock := newMockStore(t)
	require.NoError(t, store.Batch().Commit(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLGet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT data FROM documents WHERE path = ?").
		WithArgs("route_codes/1_HKI").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(`{"code":"1","region":"HKI"}`))
	mock.ExpectQuery("SELECT data FROM documents WHERE path = ?").
		WithArgs("route_codes/2_HKI").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	doc, err := store.Get(context.Background(), "route_codes/1_HKI")
	require.NoError(t, err)
	assert.Equal(t, Document{"code": "1", "region": "HKI"}, doc)

	_, err = store.Get(context.Background(), "route_codes/2_HKI")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLListAndCount(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT doc_id, data FROM documents WHERE collection = ?").
		WithArgs("route_codes").
		WillReturnRows(sqlmock.NewRows([]string{"doc_id", "data"}).
			AddRow("1_HKI", `{"code":"1"}`).
			AddRow("1_KLN", `{"code":"1"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM documents")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	docs, err := store.List(context.Background(), "route_codes")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, "1", docs["1_KLN"]["code"])

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
