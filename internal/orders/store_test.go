package orders

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopez/supportbot/internal/log"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "orders.db"), log.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStatusSeededOrders(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		orderID      string
		wantStatus   string
		wantTracking string
	}{
		{"ABC-123", "shipped", "TRK123456789"},
		{"XYZ-456", "processing", ""},
		{"DEF-789", "delivered", "TRK987654321"},
		{"MNO-678", "cancelled", ""},
	}

	for _, tt := range tests {
		t.Run(tt.orderID, func(t *testing.T) {
			o, err := store.Status(context.Background(), tt.orderID)
			if err != nil {
				t.Fatalf("Status(%s) error = %v", tt.orderID, err)
			}
			if o.Status != tt.wantStatus {
				t.Errorf("Status(%s).Status = %q, want %q", tt.orderID, o.Status, tt.wantStatus)
			}
			if o.TrackingID != tt.wantTracking {
				t.Errorf("Status(%s).TrackingID = %q, want %q", tt.orderID, o.TrackingID, tt.wantTracking)
			}
		})
	}
}

func TestStatusNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Status(context.Background(), "NOPE-000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Status() error = %v, want ErrNotFound", err)
	}
}

func TestStatusCaseSensitive(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Status(context.Background(), "abc-123")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Status() with wrong case error = %v, want ErrNotFound", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")

	first, err := Open(path, log.NewNop())
	if err != nil {
		t.Fatalf("first Open() error = %v", err)
	}
	first.Close()

	// Reopening must not duplicate or reset seeded rows.
	second, err := Open(path, log.NewNop())
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer second.Close()

	o, err := second.Status(context.Background(), "ABC-123")
	if err != nil {
		t.Fatalf("Status() after reopen error = %v", err)
	}
	if o.CustomerName != "John Doe" {
		t.Errorf("CustomerName = %q, want John Doe", o.CustomerName)
	}
}
