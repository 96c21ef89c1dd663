// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/fixhub/fixhub/internal/model"
)

// JobFilter defines filtering options for job queries.
type JobFilter struct {
	Branch string
	Status model.JobStatus
	Limit  int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Stock operations
	GetStockItem(ctx context.Context, partName string) (*model.StockItem, error)
	FindStockBySubstring(ctx context.Context, term string) (*model.StockItem, error)
	ListStock(ctx context.Context) ([]model.StockItem, error)
	InsertStockItem(ctx context.Context, item *model.StockItem) error
	DeductStock(ctx context.Context, partName string, region model.Region, qty int, allowNegative bool) error
	MergeDuplicateStock(ctx context.Context) (int, error)

	// Job operations
	SaveJob(ctx context.Context, job *model.Job) error
	GetJob(ctx context.Context, jobID string) (*model.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error)
	UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus) error

	// Identifier sequences
	NextSequence(ctx context.Context, prefix string) (int64, error)

	// Audit trail
	LogActivity(ctx context.Context, entry *model.ActivityEntry) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
