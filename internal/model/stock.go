package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem is one catalog entry with per-region quantities. Quantities may go
// negative under the default deduction policy.
type StockItem struct {
	CreatedAt  time.Time
	PartName   string
	CostPrice  decimal.Decimal
	ID         int64
	StockNorth int
	StockSouth int
}

// Quantity returns the stock level for the given region.
func (s *StockItem) Quantity(region Region) int {
	if region == RegionNorth {
		return s.StockNorth
	}
	return s.StockSouth
}

// LineItem is one parsed (part name, quantity) pair from a repair description.
// It is transient: only its resolution outcome is persisted.
type LineItem struct {
	Part     string
	Quantity int
}
