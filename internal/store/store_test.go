package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) Store {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	s, err := NewSQLStore(context.Background(), &SQLConfig{DB: db, Driver: DriverSQLite})
	require.NoError(t, err)
	return s
}

func setupRedis(t *testing.T) Store {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStoreFromClient(client, "test:")
}

func backends(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": setupSQLite(t),
		"redis":  setupRedis(t),
	}
}

func snapshotAt(typeName, doc string, at time.Time) *Snapshot {
	snap := NewSnapshot(typeName, json.RawMessage(doc))
	snap.CreatedAt = at
	return snap
}

func TestStore_SaveGet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()

			snap := NewSnapshot("Player", json.RawMessage(`{"type":"Player"}`))
			require.NoError(t, s.Save(ctx, snap))

			got, err := s.Get(ctx, snap.ID)
			require.NoError(t, err)
			assert.Equal(t, snap.ID, got.ID)
			assert.Equal(t, "Player", got.Type)
			assert.JSONEq(t, `{"type":"Player"}`, string(got.Document))
			assert.WithinDuration(t, snap.CreatedAt, got.CreatedAt, time.Second)

			_, err = s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_ListByType(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()

			second := snapshotAt("Stats", `{"n":2}`, base.Add(time.Minute))
			first := snapshotAt("Stats", `{"n":1}`, base)
			other := snapshotAt("Player", `{}`, base)
			for _, snap := range []*Snapshot{second, first, other} {
				require.NoError(t, s.Save(ctx, snap))
			}

			stats, err := s.List(ctx, "Stats")
			require.NoError(t, err)
			require.Len(t, stats, 2)
			assert.Equal(t, first.ID, stats[0].ID)
			assert.Equal(t, second.ID, stats[1].ID)

			all, err := s.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)

			none, err := s.List(ctx, "Light")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()

			snap := NewSnapshot("Light", json.RawMessage(`{}`))
			require.NoError(t, s.Save(ctx, snap))
			require.NoError(t, s.Delete(ctx, snap.ID))

			_, err := s.Get(ctx, snap.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, snap.ID), ErrNotFound)

			left, err := s.List(ctx, "Light")
			require.NoError(t, err)
			assert.Empty(t, left)
		})
	}
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	assert.Error(t, s.Save(ctx, &Snapshot{Document: json.RawMessage(`{}`)}))
	assert.Error(t, s.Save(ctx, &Snapshot{Type: "Stats", Document: json.RawMessage(`{`)}))

	snap := &Snapshot{Type: "Stats", Document: json.RawMessage(`{}`)}
	require.NoError(t, s.Save(ctx, snap))
	assert.NotEmpty(t, snap.ID)
	assert.False(t, snap.CreatedAt.IsZero())
}

func TestMemoryStore_CopiesDocument(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	doc := json.RawMessage(`{"a":1}`)
	snap := NewSnapshot("Stats", doc)
	require.NoError(t, s.Save(ctx, snap))
	doc[2] = 'b'

	got, err := s.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got.Document))
}

func TestSQLStore_PostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS inspector_snapshots .* document JSONB`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_inspector_snapshots_type_name`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := NewSQLStore(context.Background(), &SQLConfig{DB: db, Driver: DriverPgx})
	require.NoError(t, err)

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, type_name, document, created_at FROM inspector_snapshots WHERE type_name = \$1 ORDER BY created_at, id`).
		WithArgs("Stats").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type_name", "document", "created_at"}).
			AddRow("a", "Stats", `{"type":"Stats"}`, at))

	snaps, err := s.List(context.Background(), "Stats")
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "a", snaps[0].ID)
	assert.Equal(t, at, snaps[0].CreatedAt)

	mock.ExpectExec(`DELETE FROM inspector_snapshots WHERE id = \$1`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Delete(context.Background(), "gone"), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX`).WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewSQLStore(context.Background(), &SQLConfig{DB: db, Driver: DriverPostgres})
	require.NoError(t, err)

	mock.ExpectQuery(`WHERE id = \$1`).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type_name", "document", "created_at"}))
	_, err = s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(ctx, Config{Driver: DriverPgx})
	assert.ErrorContains(t, err, "requires a dsn")

	_, err = Open(ctx, Config{Driver: "mongo"})
	assert.ErrorContains(t, err, "unknown store driver")

	sqlite, err := Open(ctx, Config{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	assert.NoError(t, sqlite.Close())

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rs, err := Open(ctx, Config{Driver: DriverRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, rs.Close())
}
