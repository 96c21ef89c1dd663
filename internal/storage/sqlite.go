package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fixhub/fixhub/internal/model"
	"github.com/fixhub/fixhub/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// queryable is satisfied by both *sql.DB and *sql.Tx so every query helper
// can run standalone or inside a transaction.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main storage with the transaction.
func (t *sqliteTransaction) GetStockItem(ctx context.Context, partName string) (*model.StockItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(partName, "partName"); err != nil {
		return nil, err
	}
	return t.storage.getStockItemTx(ctx, t.tx, partName)
}

func (t *sqliteTransaction) FindStockBySubstring(ctx context.Context, term string) (*model.StockItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(term, "term"); err != nil {
		return nil, err
	}
	return t.storage.findStockBySubstringTx(ctx, t.tx, term)
}

func (t *sqliteTransaction) ListStock(ctx context.Context) ([]model.StockItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listStockTx(ctx, t.tx)
}

func (t *sqliteTransaction) InsertStockItem(ctx context.Context, item *model.StockItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateStockItem(item); err != nil {
		return err
	}
	return t.storage.insertStockItemTx(ctx, t.tx, item)
}

func (t *sqliteTransaction) DeductStock(ctx context.Context, partName string, region model.Region, qty int, allowNegative bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(partName, "partName"); err != nil {
		return err
	}
	return t.storage.deductStockTx(ctx, t.tx, partName, region, qty, allowNegative)
}

func (t *sqliteTransaction) MergeDuplicateStock(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return t.storage.mergeDuplicateStockTx(ctx, t.tx)
}

func (t *sqliteTransaction) SaveJob(ctx context.Context, job *model.Job) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateJob(job); err != nil {
		return err
	}
	return t.storage.saveJobTx(ctx, t.tx, job)
}

func (t *sqliteTransaction) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(jobID, "jobID"); err != nil {
		return nil, err
	}
	return t.storage.getJobTx(ctx, t.tx, jobID)
}

func (t *sqliteTransaction) ListJobs(ctx context.Context, filter service.JobFilter) ([]model.Job, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listJobsTx(ctx, t.tx, filter)
}

func (t *sqliteTransaction) UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(jobID, "jobID"); err != nil {
		return err
	}
	return t.storage.updateJobStatusTx(ctx, t.tx, jobID, status)
}

func (t *sqliteTransaction) NextSequence(ctx context.Context, prefix string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(prefix, "prefix"); err != nil {
		return 0, err
	}
	return t.storage.nextSequenceTx(ctx, t.tx, prefix)
}

func (t *sqliteTransaction) LogActivity(ctx context.Context, entry *model.ActivityEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	return t.storage.logActivityTx(ctx, t.tx, entry)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}
