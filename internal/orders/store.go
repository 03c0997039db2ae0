// Package orders provides the SQLite-backed order status store.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates no order exists with the requested ID.
var ErrNotFound = errors.New("order not found")

// Order is one row in the orders table.
type Order struct {
	ID           string
	CustomerName string
	Status       string
	TrackingID   string
}

// Store answers order status lookups.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	order_id      TEXT PRIMARY KEY,
	customer_name TEXT NOT NULL,
	status        TEXT NOT NULL,
	tracking_id   TEXT
);`

// sampleOrders seeds a fresh database so the assistant is usable out of the
// box. INSERT OR IGNORE keeps reseeding idempotent and preserves edits.
var sampleOrders = []Order{
	{ID: "ABC-123", CustomerName: "John Doe", Status: "shipped", TrackingID: "TRK123456789"},
	{ID: "XYZ-456", CustomerName: "Jane Smith", Status: "processing", TrackingID: ""},
	{ID: "DEF-789", CustomerName: "Bob Johnson", Status: "delivered", TrackingID: "TRK987654321"},
	{ID: "GHI-012", CustomerName: "Alice Brown", Status: "shipped", TrackingID: "TRK456789123"},
	{ID: "JKL-345", CustomerName: "Charlie Wilson", Status: "processing", TrackingID: ""},
	{ID: "MNO-678", CustomerName: "Diana Davis", Status: "cancelled", TrackingID: ""},
	{ID: "PQR-901", CustomerName: "Eve Martinez", Status: "shipped", TrackingID: "TRK789123456"},
	{ID: "STU-234", CustomerName: "Frank Garcia", Status: "delivered", TrackingID: "TRK321654987"},
}

// Open opens (creating if needed) the orders database at path, ensures the
// schema, and seeds the sample orders.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening orders database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging orders database: %w", err)
	}

	s := &Store{db: db, logger: logger.With("component", "orders")}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating orders table: %w", err)
	}

	for _, o := range sampleOrders {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO orders (order_id, customer_name, status, tracking_id) VALUES (?, ?, ?, ?)`,
			o.ID, o.CustomerName, o.Status, o.TrackingID,
		)
		if err != nil {
			return fmt.Errorf("seeding order %s: %w", o.ID, err)
		}
	}

	s.logger.Debug("orders database ready")
	return nil
}

// Status returns the order with the given ID. Matching is exact and
// case-sensitive; a miss returns ErrNotFound.
func (s *Store) Status(ctx context.Context, orderID string) (Order, error) {
	var o Order
	err := s.db.QueryRowContext(ctx,
		`SELECT order_id, customer_name, status, COALESCE(tracking_id, '') FROM orders WHERE order_id = ?`,
		orderID,
	).Scan(&o.ID, &o.CustomerName, &o.Status, &o.TrackingID)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}
	if err != nil {
		return Order{}, fmt.Errorf("querying order %s: %w", orderID, err)
	}
	return o, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing orders database: %w", err)
	}
	return nil
}
