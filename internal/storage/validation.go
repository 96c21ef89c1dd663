// Package storage provides the data persistence layer for the ERP core.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fixhub/fixhub/internal/model"
)

// Storage errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidJob   = errors.New("invalid job")
	ErrInvalidStock = errors.New("invalid stock item")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateStockItem validates a catalog entry before insert.
func validateStockItem(item *model.StockItem) error {
	if item == nil {
		return fmt.Errorf("%w: stock item", ErrNilParameter)
	}
	if strings.TrimSpace(item.PartName) == "" {
		return fmt.Errorf("%w: part name is required", ErrInvalidStock)
	}
	return nil
}

// validateJob validates a job row before insert.
func validateJob(job *model.Job) error {
	if job == nil {
		return fmt.Errorf("%w: job", ErrNilParameter)
	}
	if strings.TrimSpace(job.ID) == "" {
		return fmt.Errorf("%w: job id is required", ErrInvalidJob)
	}
	if strings.TrimSpace(job.Branch) == "" {
		return fmt.Errorf("%w: branch is required", ErrInvalidJob)
	}
	if job.Status == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidJob)
	}
	return nil
}
