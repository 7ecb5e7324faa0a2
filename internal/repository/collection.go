package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Index declares a secondary lookup over one column.
type Index struct {
	Column string
	Unique bool
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Schema describes how records of type T map onto a table.
// Columns must list the key column and match the order of Values and Scan.
type Schema[T any] struct {
	Name    string
	Key     string
	Columns []string
	Indexes map[string]Index
	KeyOf   func(T) string
	Values  func(T) []any
	Scan    func(rowScanner) (T, error)
}

// Collection is a named group of uniquely keyed records with declared
// secondary indexes.
type Collection[T any] struct {
	db     *sql.DB
	schema Schema[T]

	selectQuery string
	insertQuery string
	deleteQuery string
}

// NewCollection binds a schema to a database.
func NewCollection[T any](db *sql.DB, schema Schema[T]) *Collection[T] {
	cols := strings.Join(schema.Columns, ", ")
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(schema.Columns)), ", ")

	return &Collection[T]{
		db:          db,
		schema:      schema,
		selectQuery: fmt.Sprintf("SELECT %s FROM %s", cols, schema.Name),
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", schema.Name, cols, marks),
		deleteQuery: fmt.Sprintf("DELETE FROM %s WHERE %s = ?", schema.Name, schema.Key),
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.schema.Name
}

// Put inserts rec or fully overwrites the record stored under its key.
// The replace runs in one transaction; a unique index violation rolls it back
// and returns ErrConstraintViolation.
func (c *Collection[T]) Put(ctx context.Context, rec T) error {
	key := c.schema.KeyOf(rec)
	if key == "" {
		return fmt.Errorf("put %s: %w", c.schema.Name, ErrEmptyKey)
	}

	err := withTx(ctx, c.db, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, c.deleteQuery, key); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, c.insertQuery, c.schema.Values(rec)...)
		return err
	})
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("put %s: %w: %v", c.schema.Name, ErrConstraintViolation, err)
		}
		return fmt.Errorf("put %s: %w", c.schema.Name, err)
	}
	return nil
}

// GetByKey returns the record stored under key. The boolean is false when no
// such record exists; that is not an error.
func (c *Collection[T]) GetByKey(ctx context.Context, key string) (T, bool, error) {
	query := c.selectQuery + fmt.Sprintf(" WHERE %s = ?", c.schema.Key)

	rec, err := c.schema.Scan(c.db.QueryRowContext(ctx, query, key))
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("get %s: %w", c.schema.Name, err)
	}
	return rec, true, nil
}

// GetByIndex returns the records whose indexed column equals value.
// Lookups on a unique index return at most one record.
func (c *Collection[T]) GetByIndex(ctx context.Context, index string, value any) ([]T, error) {
	idx, ok := c.schema.Indexes[index]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", c.schema.Name, index, ErrUnknownIndex)
	}

	query := c.selectQuery + fmt.Sprintf(" WHERE %s = ?", idx.Column)
	if idx.Unique {
		query += " LIMIT 1"
	}

	rows, err := c.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("query %s.%s: %w", c.schema.Name, index, err)
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		rec, err := c.schema.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.schema.Name, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByKey removes the record under key. Deleting an absent key succeeds.
func (c *Collection[T]) DeleteByKey(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, c.deleteQuery, key); err != nil {
		return fmt.Errorf("delete %s: %w", c.schema.Name, err)
	}
	return nil
}

// Count returns the number of stored records.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", c.schema.Name)
	if err := c.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.schema.Name, err)
	}
	return n, nil
}

// isConstraintError reports unique violations from either driver:
// MySQL error 1062 or SQLite's "UNIQUE constraint failed".
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
