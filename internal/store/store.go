// Package store persists serialized documents of inspected values.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a snapshot does not exist
var ErrNotFound = errors.New("snapshot not found")

// Store defines the interface for snapshot storage backends
type Store interface {
	// Save stores a snapshot, assigning an ID and timestamp when missing
	Save(ctx context.Context, snap *Snapshot) error

	// Get retrieves a snapshot by ID
	Get(ctx context.Context, id string) (*Snapshot, error)

	// List returns the snapshots of a type, oldest first. An empty type
	// name lists every snapshot.
	List(ctx context.Context, typeName string) ([]*Snapshot, error)

	// Delete removes a snapshot
	Delete(ctx context.Context, id string) error

	// Close releases the backend
	Close() error
}

// Snapshot is a serialized document of one value at a point in time
type Snapshot struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewSnapshot creates a snapshot with a fresh ID
func NewSnapshot(typeName string, doc json.RawMessage) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		Type:      typeName,
		Document:  doc,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *Snapshot) prepare() error {
	if s.Type == "" {
		return errors.New("snapshot type is required")
	}
	if !json.Valid(s.Document) {
		return fmt.Errorf("snapshot %s: document is not valid JSON", s.ID)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return nil
}

// Drivers understood by Open
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite3"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Drivers lists every supported driver name
var Drivers = []string{DriverMemory, DriverSQLite, DriverPgx, DriverPostgres, DriverRedis}

// Config selects and configures a backend
type Config struct {
	Driver        string `mapstructure:"driver"`
	DSN           string `mapstructure:"dsn"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	Prefix        string `mapstructure:"prefix"`
}

// Open creates the store selected by cfg.Driver
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite, DriverPgx, DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("store driver %s requires a dsn", cfg.Driver)
		}
		return OpenSQL(ctx, cfg.Driver, cfg.DSN)
	case DriverRedis:
		s := NewRedisStore(&RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.Prefix,
		})
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
