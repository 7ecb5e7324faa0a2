package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/smarttask/smarttask-go/internal/model"
	"github.com/smarttask/smarttask-go/internal/repository/migrations"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var (
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrUnknownIndex        = errors.New("unknown index")
	ErrEmptyKey            = errors.New("record key is empty")
)

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// Store is the durable object store: one SQL database holding the users and
// todos collections.
type Store struct {
	db     *sql.DB
	driver string

	Users *Collection[model.UserRecord]
	Todos *Collection[model.Todo]
}

// Open connects to the database, verifies it is reachable and applies any
// pending migrations. Reopening an already initialized database is a no-op
// apart from the connectivity check. Every failure wraps ErrStorageUnavailable.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != DriverSQLite && driver != DriverMySQL {
		return nil, fmt.Errorf("%w: unsupported driver %q", ErrStorageUnavailable, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if driver == DriverSQLite {
		// One connection serializes writers and keeps ":memory:" databases alive.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	s := NewStore(db, driver)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	slog.Info("store opened", "driver", driver)
	return s, nil
}

// NewStore wraps an already opened database without running migrations.
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{
		db:     db,
		driver: driver,
		Users:  NewCollection(db, usersSchema),
		Todos:  NewCollection(db, todosSchema),
	}
}

// Migrate applies the embedded migrations for the store's driver.
func (s *Store) Migrate(ctx context.Context) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	if err := s.setupGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, s.db, s.driver); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Version reports the applied schema version.
func (s *Store) Version(ctx context.Context) (int64, error) {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	if err := s.setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, s.db)
}

func (s *Store) setupGoose() error {
	dialect := "sqlite3"
	if s.driver == DriverMySQL {
		dialect = "mysql"
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
