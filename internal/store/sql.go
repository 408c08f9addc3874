package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver (pgx)
	_ "github.com/lib/pq"              // PostgreSQL driver (pq)
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// DefaultTableName is the table used for snapshots
const DefaultTableName = "inspector_snapshots"

// SQLStore is a database/sql backed snapshot store
type SQLStore struct {
	db        *sql.DB
	tableName string
	postgres  bool
	ownsDB    bool
}

// SQLConfig holds SQL snapshot store configuration
type SQLConfig struct {
	// DB is the database connection
	DB *sql.DB

	// Driver is the database/sql driver name the connection was opened with
	Driver string

	// TableName is the name of the snapshots table
	TableName string
}

// OpenSQL opens a connection with the named driver and creates the store
// on top of it. The store owns and closes the connection.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	s, err := NewSQLStore(ctx, &SQLConfig{DB: db, Driver: driver})
	if err != nil {
		db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

// NewSQLStore creates a store over an existing connection
func NewSQLStore(ctx context.Context, config *SQLConfig) (*SQLStore, error) {
	if config.DB == nil {
		return nil, errors.New("sql store requires a database connection")
	}
	s := &SQLStore{
		db:        config.DB,
		tableName: config.TableName,
		postgres:  config.Driver == DriverPgx || config.Driver == DriverPostgres,
	}
	if s.tableName == "" {
		s.tableName = DefaultTableName
	}

	if err := s.createTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return s, nil
}

func (s *SQLStore) createTable(ctx context.Context) error {
	docType := "TEXT"
	if s.postgres {
		docType = "JSONB"
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(64) PRIMARY KEY,
		type_name VARCHAR(255) NOT NULL,
		document %s NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`, s.tableName, docType)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return err
	}

	indexQuery := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_type_name ON %s (type_name)`,
		s.tableName, s.tableName)
	_, err := s.db.ExecContext(ctx, indexQuery)
	return err
}

// rebind rewrites ? placeholders for postgres drivers
func (s *SQLStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := snap.prepare(); err != nil {
		return err
	}

	query := s.rebind(fmt.Sprintf(`INSERT INTO %s (id, type_name, document, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			type_name = EXCLUDED.type_name,
			document = EXCLUDED.document`, s.tableName))

	_, err := s.db.ExecContext(ctx, query, snap.ID, snap.Type, string(snap.Document), snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	query := s.rebind(fmt.Sprintf(`SELECT id, type_name, document, created_at FROM %s WHERE id = ?`, s.tableName))

	snap, err := scanSnapshot(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	return snap, nil
}

func (s *SQLStore) List(ctx context.Context, typeName string) ([]*Snapshot, error) {
	query := fmt.Sprintf(`SELECT id, type_name, document, created_at FROM %s`, s.tableName)
	var args []any
	if typeName != "" {
		query += ` WHERE type_name = ?`
		args = append(args, typeName)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	defer rows.Close()

	var out []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	query := s.rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.tableName))

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("database delete error: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the connection when the store opened it
func (s *SQLStore) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var (
		snap      Snapshot
		doc       string
		createdAt time.Time
	)
	if err := row.Scan(&snap.ID, &snap.Type, &doc, &createdAt); err != nil {
		return nil, err
	}
	snap.Document = []byte(doc)
	snap.CreatedAt = createdAt.UTC()
	return &snap, nil
}
