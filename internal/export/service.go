// Package export produces XLSX workbooks from the stock catalog.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fixhub/fixhub/internal/service"
	"github.com/xuri/excelize/v2"
)

// Service is a tiny façade over storage that produces XLSX bytes for exports.
type Service struct {
	storage service.Storage
	logger  *slog.Logger
}

// NewService creates an export service. A nil logger falls back to the default.
func NewService(storage service.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{storage: storage, logger: logger}
}

// StockXLSX returns an XLSX workbook (as bytes) listing the full catalog with
// both regional quantities.
func (s *Service) StockXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	items, err := s.storage.ListStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("query stock: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Stock"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Part Name", "Stock North", "Stock South", "Cost Price", "Created At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, item := range items {
		values := []any{
			item.PartName,
			item.StockNorth,
			item.StockSouth,
			item.CostPrice.String(),
			item.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	// Drop the default sheet excelize creates.
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("exported stock workbook",
		"items", len(items),
		"duration", time.Since(start))

	return buf.Bytes(), nil
}
