package orders

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"dockside/internal/errors"
)

// SQLiteStore keeps orders in a SQLite database.
type SQLiteStore struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
}

// OpenSQLite opens or creates the orders database at dbPath.
func OpenSQLite(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbExists := fileExists(dbPath)

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.New(errors.DataSourceUnavailable, "failed to open orders database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, errors.New(errors.DataSourceUnavailable, "failed to set pragma", err)
		}
	}

	store := &SQLiteStore{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
	}

	if !dbExists {
		logger.Info("Creating orders database", "path", dbPath)
	}
	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, errors.New(errors.DataSourceMalformed, "failed to initialize orders schema", err)
	}

	return store, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *SQLiteStore) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS orders (
			order_id INTEGER PRIMARY KEY,
			order_data TEXT NOT NULL,
			order_status TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(order_status);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Orders implements Store, returning orders sorted by id.
func (s *SQLiteStore) Orders(ctx context.Context) ([]Order, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT order_id, order_data, order_status FROM orders ORDER BY order_id`)
	if err != nil {
		return nil, errors.New(errors.DataSourceUnavailable, "failed to query orders", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Data, &o.Status); err != nil {
			return nil, errors.New(errors.DataSourceMalformed, "failed to scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.DataSourceUnavailable, "failed to iterate orders", err)
	}
	return orders, nil
}

// Replace swaps the whole collection for orders in a single transaction.
func (s *SQLiteStore) Replace(ctx context.Context, orders []Order) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO orders (order_id, order_data, order_status) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range orders {
		if _, err := stmt.ExecContext(ctx, o.ID, o.Data, o.Status); err != nil {
			return fmt.Errorf("failed to insert order %d: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit orders: %w", err)
	}

	s.logger.Debug("Replaced orders", "count", len(orders), "path", s.dbPath)
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
