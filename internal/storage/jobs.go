package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fixhub/fixhub/internal/model"
	"github.com/fixhub/fixhub/internal/service"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SaveJob inserts a new job row. Job identifiers are unique; inserting an
// existing one returns ErrDuplicateEntry.
func (s *SQLiteStorage) SaveJob(ctx context.Context, job *model.Job) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateJob(job); err != nil {
		return err
	}
	return s.saveJobTx(ctx, s.db, job)
}

func (s *SQLiteStorage) saveJobTx(ctx context.Context, q queryable, job *model.Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO jobs (job_id, branch, customer, phone, device_model, repair_desc, price, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		job.ID,
		job.Branch,
		job.Customer,
		job.Phone,
		job.DeviceModel,
		job.RepairDesc,
		job.Price.String(),
		string(job.Status),
		job.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: job %s", ErrDuplicateEntry, job.ID)
		}
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by its generated identifier.
func (s *SQLiteStorage) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(jobID, "jobID"); err != nil {
		return nil, err
	}
	return s.getJobTx(ctx, s.db, jobID)
}

func (s *SQLiteStorage) getJobTx(ctx context.Context, q queryable, jobID string) (*model.Job, error) {
	var (
		job    model.Job
		price  string
		status string
	)
	err := q.QueryRowContext(ctx, `
		SELECT job_id, branch, customer, phone, device_model, repair_desc, price, status, created_at
		FROM jobs
		WHERE job_id = ?
	`, jobID).Scan(
		&job.ID,
		&job.Branch,
		&job.Customer,
		&job.Phone,
		&job.DeviceModel,
		&job.RepairDesc,
		&price,
		&status,
		&job.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if job.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("invalid price for job %s: %w", job.ID, err)
	}
	job.Status = model.JobStatus(status)
	return &job, nil
}

// ListJobs returns jobs matching the filter, most recent first.
func (s *SQLiteStorage) ListJobs(ctx context.Context, filter service.JobFilter) ([]model.Job, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listJobsTx(ctx, s.db, filter)
}

func (s *SQLiteStorage) listJobsTx(ctx context.Context, q queryable, filter service.JobFilter) ([]model.Job, error) {
	query := `
		SELECT job_id, branch, customer, phone, device_model, repair_desc, price, status, created_at
		FROM jobs`
	var (
		conds []string
		args  []any
	)
	if filter.Branch != "" {
		conds = append(conds, "branch = ?")
		args = append(args, filter.Branch)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []model.Job
	for rows.Next() {
		var (
			job    model.Job
			price  string
			status string
		)
		if err := rows.Scan(
			&job.ID,
			&job.Branch,
			&job.Customer,
			&job.Phone,
			&job.DeviceModel,
			&job.RepairDesc,
			&price,
			&status,
			&job.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if job.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid price for job %s: %w", job.ID, err)
		}
		job.Status = model.JobStatus(status)
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	slog.Debug("retrieved jobs", "count", len(jobs))
	return jobs, nil
}

// UpdateJobStatus moves a job to a new status.
func (s *SQLiteStorage) UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(jobID, "jobID"); err != nil {
		return err
	}
	return s.updateJobStatusTx(ctx, s.db, jobID, status)
}

func (s *SQLiteStorage) updateJobStatusTx(ctx context.Context, q queryable, jobID string, status model.JobStatus) error {
	res, err := q.ExecContext(ctx, `UPDATE jobs SET status = ? WHERE job_id = ?`, string(status), jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}
	return nil
}
