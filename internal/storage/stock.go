package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fixhub/fixhub/internal/model"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// GetStockItem retrieves a catalog entry by exact part name. The comparison is
// byte-exact (SQLite BINARY collation).
func (s *SQLiteStorage) GetStockItem(ctx context.Context, partName string) (*model.StockItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(partName, "partName"); err != nil {
		return nil, err
	}
	return s.getStockItemTx(ctx, s.db, partName)
}

func (s *SQLiteStorage) getStockItemTx(ctx context.Context, q queryable, partName string) (*model.StockItem, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, part_name, stock_north, stock_south, cost_price, created_at
		FROM stock_list
		WHERE part_name = ?
	`, partName)

	return scanStockItem(row)
}

// FindStockBySubstring returns the catalog entry whose name contains the term
// as a substring, compared case-insensitively to keep parity with the backing
// store the catalog was migrated from. Ties break deterministically: shortest
// name first, then lexicographic.
func (s *SQLiteStorage) FindStockBySubstring(ctx context.Context, term string) (*model.StockItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(term, "term"); err != nil {
		return nil, err
	}
	return s.findStockBySubstringTx(ctx, s.db, term)
}

func (s *SQLiteStorage) findStockBySubstringTx(ctx context.Context, q queryable, term string) (*model.StockItem, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, part_name, stock_north, stock_south, cost_price, created_at
		FROM stock_list
		WHERE instr(lower(part_name), lower(?)) > 0
		ORDER BY length(part_name), part_name
		LIMIT 1
	`, term)

	return scanStockItem(row)
}

// ListStock returns the full catalog ordered by part name.
func (s *SQLiteStorage) ListStock(ctx context.Context) ([]model.StockItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listStockTx(ctx, s.db)
}

func (s *SQLiteStorage) listStockTx(ctx context.Context, q queryable) ([]model.StockItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, part_name, stock_north, stock_south, cost_price, created_at
		FROM stock_list
		ORDER BY part_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.StockItem
	for rows.Next() {
		var (
			item  model.StockItem
			price string
		)
		if err := rows.Scan(&item.ID, &item.PartName, &item.StockNorth, &item.StockSouth, &price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock item: %w", err)
		}
		if item.CostPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid cost price for %q: %w", item.PartName, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock: %w", err)
	}

	slog.Debug("retrieved stock list", "count", len(items))
	return items, nil
}

// InsertStockItem adds a new catalog entry. Part names are unique. The insert
// and its audit entry commit together.
func (s *SQLiteStorage) InsertStockItem(ctx context.Context, item *model.StockItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateStockItem(item); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.insertStockItemTx(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stock insert: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) insertStockItemTx(ctx context.Context, q queryable, item *model.StockItem) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO stock_list (part_name, stock_north, stock_south, cost_price)
		VALUES (?, ?, ?, ?)
	`, item.PartName, item.StockNorth, item.StockSouth, item.CostPrice.String())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: part %q", ErrDuplicateEntry, item.PartName)
		}
		return fmt.Errorf("failed to insert stock item: %w", err)
	}

	if item.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read stock item id: %w", err)
	}

	entry := model.NewActivityEntry("", "INSERT_STOCK",
		fmt.Sprintf("Added stock item %q (north=%d, south=%d)", item.PartName, item.StockNorth, item.StockSouth))
	return s.logActivityTx(ctx, q, entry)
}

// DeductStock decrements a regional quantity in place. The arithmetic happens
// at the storage layer so concurrent deductions against the same entry never
// lose updates. With allowNegative the quantity may drop below zero, matching
// the original system; otherwise the update is conditional and insufficient
// stock fails the call.
func (s *SQLiteStorage) DeductStock(ctx context.Context, partName string, region model.Region, qty int, allowNegative bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(partName, "partName"); err != nil {
		return err
	}
	return s.deductStockTx(ctx, s.db, partName, region, qty, allowNegative)
}

func (s *SQLiteStorage) deductStockTx(ctx context.Context, q queryable, partName string, region model.Region, qty int, allowNegative bool) error {
	if qty <= 0 {
		return fmt.Errorf("%w: deduction quantity must be positive", ErrInvalidStock)
	}

	column := "stock_south"
	if region == model.RegionNorth {
		column = "stock_north"
	}

	query := fmt.Sprintf(`UPDATE stock_list SET %[1]s = %[1]s - ? WHERE part_name = ?`, column)
	args := []any{qty, partName}
	if !allowNegative {
		query += fmt.Sprintf(` AND %s >= ?`, column)
		args = append(args, qty)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to deduct stock for %q: %w", partName, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		if allowNegative {
			return fmt.Errorf("%w: part %q", ErrNotFound, partName)
		}
		// Clamp mode: distinguish a missing part from insufficient stock.
		var exists bool
		if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM stock_list WHERE part_name = ?)`, partName).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check part existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: part %q", ErrNotFound, partName)
		}
		return fmt.Errorf("%w: part %q", ErrInsufficientStock, partName)
	}
	return nil
}

// MergeDuplicateStock collapses entries whose part names are equal after
// trimming and lowercasing into the oldest row, summing both regional
// quantities. Returns the number of redundant rows removed.
func (s *SQLiteStorage) MergeDuplicateStock(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	merged, err := s.mergeDuplicateStockTx(ctx, tx)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit merge: %w", err)
	}
	return merged, nil
}

func (s *SQLiteStorage) mergeDuplicateStockTx(ctx context.Context, q queryable) (int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT lower(trim(part_name)) AS key, MIN(id)
		FROM stock_list
		GROUP BY key
		HAVING COUNT(*) > 1
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to find duplicate stock: %w", err)
	}

	type dup struct {
		key    string
		keepID int64
	}
	var dups []dup
	for rows.Next() {
		var d dup
		if err := rows.Scan(&d.key, &d.keepID); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("failed to scan duplicate group: %w", err)
		}
		dups = append(dups, d)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, fmt.Errorf("error iterating duplicate groups: %w", err)
	}
	_ = rows.Close()

	merged := 0
	for _, d := range dups {
		if _, err := q.ExecContext(ctx, `
			UPDATE stock_list SET
				stock_north = (SELECT SUM(stock_north) FROM stock_list WHERE lower(trim(part_name)) = ?),
				stock_south = (SELECT SUM(stock_south) FROM stock_list WHERE lower(trim(part_name)) = ?)
			WHERE id = ?
		`, d.key, d.key, d.keepID); err != nil {
			return 0, fmt.Errorf("failed to merge duplicates for %q: %w", d.key, err)
		}

		res, err := q.ExecContext(ctx, `
			DELETE FROM stock_list
			WHERE lower(trim(part_name)) = ? AND id != ?
		`, d.key, d.keepID)
		if err != nil {
			return 0, fmt.Errorf("failed to remove duplicates for %q: %w", d.key, err)
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		merged += int(removed)

		slog.Info("Merged duplicate stock entries", "part", d.key, "removed", removed)
	}

	if merged > 0 {
		entry := model.NewActivityEntry("", "MERGE_STOCKS",
			fmt.Sprintf("Merged %d duplicate stock entries into %d groups", merged, len(dups)))
		if err := s.logActivityTx(ctx, q, entry); err != nil {
			return 0, err
		}
	}

	return merged, nil
}

// scanStockItem maps a single stock row, translating sql.ErrNoRows into
// ErrNotFound.
func scanStockItem(row *sql.Row) (*model.StockItem, error) {
	var (
		item  model.StockItem
		price string
	)
	err := row.Scan(&item.ID, &item.PartName, &item.StockNorth, &item.StockSouth, &price, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan stock item: %w", err)
	}

	if item.CostPrice, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("invalid cost price for %q: %w", item.PartName, err)
	}
	return &item, nil
}
