package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/kmorten/price-tracker/internal/models"
)

// PostgresStore persists the ledger in a single table, one row per
// record, ordered by insertion id. Save replaces the table contents in
// one transaction, which is equivalent to the CSV store's full rewrite.
type PostgresStore struct {
	conn *sql.DB
}

// OpenPostgres connects to the database and verifies the connection.
func OpenPostgres(connStr string) (*PostgresStore, error) {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{conn: conn}, nil
}

// NewPostgresStore wraps an existing connection.
func NewPostgresStore(conn *sql.DB) *PostgresStore {
	return &PostgresStore{conn: conn}
}

// Migrate applies the schema migrations from the given directory.
func (s *PostgresStore) Migrate(migrationsPath string) error {
	driver, err := migratepg.WithInstance(s.conn, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

// Load reads the full ledger ordered by insertion id.
func (s *PostgresStore) Load(ctx context.Context) (*Ledger, error) {
	query := `
		SELECT date, product_name, price, url
		FROM ledger_records
		ORDER BY id ASC
	`
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	defer rows.Close()

	l := New()
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.Date, &rec.ProductName, &rec.Price, &rec.URL); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		rec.Date = models.Day(rec.Date)
		l.Append(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger rows: %w", err)
	}
	return l, nil
}

// Save replaces the table contents with the ledger snapshot.
func (s *PostgresStore) Save(ctx context.Context, l *Ledger) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_records`); err != nil {
		return fmt.Errorf("failed to clear ledger table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_records (date, product_name, price, url)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range l.Snapshot() {
		if _, err := stmt.ExecContext(ctx, rec.Date, rec.ProductName, rec.Price, rec.URL); err != nil {
			return fmt.Errorf("failed to insert ledger row for %s: %w", rec.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger save: %w", err)
	}
	return nil
}
