// Package dataset manages the sample business database the query
// assistant answers questions against. Open builds the schema and
// seeds it when empty, so ":memory:" yields a ready dataset on every
// start.
package dataset

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Row is one result row keyed by column name.
type Row map[string]any

// ResultSet is the outcome of an executed query.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// DB wraps the sample dataset connection.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the dataset at path and ensures schema and
// seed rows exist. Path ":memory:" keeps everything in process.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; the pool must not
	// open a second one.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	d := &DB{db: db}

	if err := d.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := d.seedIfEmpty(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed dataset: %w", err)
	}

	return d, nil
}

func (d *DB) initSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) seedIfEmpty() error {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM employees").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range seedStatements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Plan asks SQLite to plan the query without running it. A plan error
// means the query cannot execute as written.
func (d *DB) Plan(ctx context.Context, query string) error {
	rows, err := d.db.QueryContext(ctx, "EXPLAIN QUERY PLAN "+query)
	if err != nil {
		return err
	}
	return rows.Close()
}

// Execute runs the query and materializes every row. Byte slices are
// converted to strings so results marshal cleanly to JSON.
func (d *DB) Execute(ctx context.Context, query string) (*ResultSet, error) {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &ResultSet{Columns: columns, Rows: []Row{}}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// SchemaDescription returns the prompt-ready description of the
// dataset: tables, columns, and example questions.
func (d *DB) SchemaDescription() string {
	return schemaDescription
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.db.Close()
}
