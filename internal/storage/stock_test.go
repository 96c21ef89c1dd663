package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fixhub/fixhub/internal/model"
	"github.com/shopspring/decimal"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func seedStock(t *testing.T, store *SQLiteStorage, items ...model.StockItem) {
	t.Helper()
	ctx := context.Background()
	for i := range items {
		if err := store.InsertStockItem(ctx, &items[i]); err != nil {
			t.Fatalf("Failed to seed stock item %q: %v", items[i].PartName, err)
		}
	}
}

func TestGetStockItemExact(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedStock(t, store,
		model.StockItem{PartName: "Battery", StockNorth: 10, StockSouth: 4, CostPrice: decimal.NewFromInt(25)},
	)

	item, err := store.GetStockItem(ctx, "Battery")
	if err != nil {
		t.Fatalf("GetStockItem failed: %v", err)
	}
	if item.StockNorth != 10 || item.StockSouth != 4 {
		t.Errorf("Unexpected quantities: north=%d south=%d", item.StockNorth, item.StockSouth)
	}
	if !item.CostPrice.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Unexpected cost price: %s", item.CostPrice)
	}

	// Exact lookup is byte-exact
	if _, err := store.GetStockItem(ctx, "battery"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for case mismatch, got %v", err)
	}
}

func TestFindStockBySubstring(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedStock(t, store,
		model.StockItem{PartName: "Battery Cell XXL Pro", StockNorth: 1},
		model.StockItem{PartName: "Battery Cell XL", StockNorth: 1},
		model.StockItem{PartName: "Screen", StockNorth: 1},
	)

	tests := []struct {
		name     string
		term     string
		wantPart string
		wantErr  error
	}{
		{name: "shortest containing name wins", term: "Battery Cell", wantPart: "Battery Cell XL"},
		{name: "no containment", term: "Flux Capacitor", wantErr: ErrNotFound},
		{name: "containment ignores case", term: "battery cell", wantPart: "Battery Cell XL"},
		{name: "mixed case term", term: "SCREEN", wantPart: "Screen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := store.FindStockBySubstring(ctx, tt.term)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindStockBySubstring failed: %v", err)
			}
			if item.PartName != tt.wantPart {
				t.Errorf("Expected %q, got %q", tt.wantPart, item.PartName)
			}
		})
	}
}

func TestInsertStockItemDuplicate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedStock(t, store, model.StockItem{PartName: "Battery"})

	err := store.InsertStockItem(ctx, &model.StockItem{PartName: "Battery"})
	if !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("Expected ErrDuplicateEntry, got %v", err)
	}
}

func TestDeductStock(t *testing.T) {
	tests := []struct {
		wantErr       error
		name          string
		part          string
		region        model.Region
		qty           int
		wantNorth     int
		wantSouth     int
		allowNegative bool
	}{
		{
			name: "north deduction", part: "Battery", region: model.RegionNorth, qty: 1,
			allowNegative: true, wantNorth: 9, wantSouth: 5,
		},
		{
			name: "south deduction", part: "Battery", region: model.RegionSouth, qty: 3,
			allowNegative: true, wantNorth: 10, wantSouth: 2,
		},
		{
			name: "negative allowed", part: "Battery", region: model.RegionSouth, qty: 8,
			allowNegative: true, wantNorth: 10, wantSouth: -3,
		},
		{
			name: "clamp mode rejects overdraw", part: "Battery", region: model.RegionSouth, qty: 8,
			allowNegative: false, wantErr: ErrInsufficientStock, wantNorth: 10, wantSouth: 5,
		},
		{
			name: "unknown part", part: "Ghost", region: model.RegionNorth, qty: 1,
			allowNegative: true, wantErr: ErrNotFound, wantNorth: 10, wantSouth: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := createTestStorage(t)
			defer cleanup()
			ctx := context.Background()

			seedStock(t, store, model.StockItem{PartName: "Battery", StockNorth: 10, StockSouth: 5})

			err := store.DeductStock(ctx, tt.part, tt.region, tt.qty, tt.allowNegative)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("DeductStock failed: %v", err)
			}

			item, err := store.GetStockItem(ctx, "Battery")
			if err != nil {
				t.Fatalf("GetStockItem failed: %v", err)
			}
			if item.StockNorth != tt.wantNorth || item.StockSouth != tt.wantSouth {
				t.Errorf("Expected north=%d south=%d, got north=%d south=%d",
					tt.wantNorth, tt.wantSouth, item.StockNorth, item.StockSouth)
			}
		})
	}
}

func TestDeductStockCumulative(t *testing.T) {
	// Two deductions against the same entry must apply cumulatively.
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedStock(t, store, model.StockItem{PartName: "Screen", StockNorth: 10})

	for i := 0; i < 2; i++ {
		if err := store.DeductStock(ctx, "Screen", model.RegionNorth, 3, true); err != nil {
			t.Fatalf("DeductStock failed: %v", err)
		}
	}

	item, err := store.GetStockItem(ctx, "Screen")
	if err != nil {
		t.Fatalf("GetStockItem failed: %v", err)
	}
	if item.StockNorth != 4 {
		t.Errorf("Expected cumulative deduction to 4, got %d", item.StockNorth)
	}
}

func TestMergeDuplicateStock(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedStock(t, store,
		model.StockItem{PartName: "Battery", StockNorth: 3, StockSouth: 1},
		model.StockItem{PartName: "battery ", StockNorth: 2, StockSouth: 4},
		model.StockItem{PartName: "Screen", StockNorth: 7},
	)

	merged, err := store.MergeDuplicateStock(ctx)
	if err != nil {
		t.Fatalf("MergeDuplicateStock failed: %v", err)
	}
	if merged != 1 {
		t.Errorf("Expected 1 merged row, got %d", merged)
	}

	item, err := store.GetStockItem(ctx, "Battery")
	if err != nil {
		t.Fatalf("GetStockItem failed: %v", err)
	}
	if item.StockNorth != 5 || item.StockSouth != 5 {
		t.Errorf("Expected summed quantities north=5 south=5, got north=%d south=%d",
			item.StockNorth, item.StockSouth)
	}

	items, err := store.ListStock(ctx)
	if err != nil {
		t.Fatalf("ListStock failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Expected 2 remaining items, got %d", len(items))
	}
}

func TestStockMutationsRecordActivity(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedStock(t, store,
		model.StockItem{PartName: "Battery", StockNorth: 3},
		model.StockItem{PartName: "battery ", StockNorth: 2},
	)

	if _, err := store.MergeDuplicateStock(ctx); err != nil {
		t.Fatalf("MergeDuplicateStock failed: %v", err)
	}

	rows, err := store.db.QueryContext(ctx, `SELECT action, COUNT(*) FROM activity_logs GROUP BY action`)
	if err != nil {
		t.Fatalf("Failed to query activity log: %v", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			action string
			n      int
		)
		if err := rows.Scan(&action, &n); err != nil {
			t.Fatalf("Failed to scan activity count: %v", err)
		}
		counts[action] = n
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Error iterating activity counts: %v", err)
	}

	if counts["INSERT_STOCK"] != 2 {
		t.Errorf("Expected 2 INSERT_STOCK entries, got %d", counts["INSERT_STOCK"])
	}
	if counts["MERGE_STOCKS"] != 1 {
		t.Errorf("Expected 1 MERGE_STOCKS entry, got %d", counts["MERGE_STOCKS"])
	}
}
