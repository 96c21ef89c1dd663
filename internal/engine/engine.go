// Package engine implements the job-creation unit of work: identifier
// generation, line-item resolution, stock deduction, and job persistence as
// one atomic transaction.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fixhub/fixhub/internal/common"
	"github.com/fixhub/fixhub/internal/idgen"
	"github.com/fixhub/fixhub/internal/match"
	"github.com/fixhub/fixhub/internal/model"
	"github.com/fixhub/fixhub/internal/parser"
	"github.com/fixhub/fixhub/internal/service"
	"github.com/shopspring/decimal"
)

// Config holds configuration options for the job engine.
type Config struct {
	Retry service.RetryOptions
	// StrictStockMatching makes an unmatched line item abort the whole job.
	// Off by default: the original system creates the job anyway and only
	// records the unmatched part for operator visibility. That asymmetry is
	// an intentional business decision, not a bug.
	StrictStockMatching bool
	// AllowNegativeStock permits deductions to drive quantities below zero,
	// matching the original system. Disable to reject overdraws instead.
	AllowNegativeStock bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		StrictStockMatching: false,
		AllowNegativeStock:  true,
	}
}

// JobEngine coordinates job creation against the storage layer.
type JobEngine struct {
	storage service.Storage
	config  Config
}

// New creates a job engine with default configuration.
func New(storage service.Storage) *JobEngine {
	return NewWithConfig(storage, DefaultConfig())
}

// NewWithConfig creates a job engine with custom configuration.
func NewWithConfig(storage service.Storage, config Config) *JobEngine {
	return &JobEngine{
		storage: storage,
		config:  config,
	}
}

// JobRequest carries the caller-supplied fields for one job creation.
type JobRequest struct {
	Branch      string
	Customer    string
	Phone       string
	DeviceModel string
	RepairDesc  string
	Actor       string
	Price       decimal.Decimal
	Type        model.JobType
}

// ItemOutcome pairs a parsed line item with its catalog resolution, so the
// caller can report results like "2 of 3 parts deducted, 1 not found".
type ItemOutcome struct {
	Item    model.LineItem
	Outcome model.MatchOutcome
}

// JobResult is the successful result of a job creation.
type JobResult struct {
	Job   *model.Job
	Items []ItemOutcome
}

// DeductedCount returns how many line items resolved and were deducted.
func (r *JobResult) DeductedCount() int {
	n := 0
	for _, item := range r.Items {
		if item.Outcome.Matched() {
			n++
		}
	}
	return n
}

// UnmatchedParts returns the search terms that resolved to nothing.
func (r *JobResult) UnmatchedParts() []string {
	var parts []string
	for _, item := range r.Items {
		if !item.Outcome.Matched() {
			parts = append(parts, item.Outcome.SearchTerm)
		}
	}
	return parts
}

// CreateJob runs the full job-creation unit of work. Identifier generation or
// persistence failures abort the transaction and roll back any deductions
// already applied; unmatched line items do not, unless StrictStockMatching is
// set. Transient storage contention retries the whole unit.
func (e *JobEngine) CreateJob(ctx context.Context, req JobRequest) (*JobResult, error) {
	if strings.TrimSpace(req.Branch) == "" {
		return nil, fmt.Errorf("%w: branch is required", common.ErrInvalidConfig)
	}
	if req.Type == "" {
		req.Type = model.TypeRepair
	}

	var result *JobResult
	err := common.WithRetry(ctx, func() error {
		res, err := e.createJobOnce(ctx, req)
		if err != nil {
			return err
		}
		result = res
		return nil
	}, e.config.Retry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrJobCreationFailed, err)
	}

	slog.Info("Created job",
		"job_id", result.Job.ID,
		"branch", req.Branch,
		"line_items", len(result.Items),
		"deducted", result.DeductedCount(),
		"unmatched", len(result.UnmatchedParts()))

	return result, nil
}

// createJobOnce is one transactional attempt of the unit of work.
func (e *JobEngine) createJobOnce(ctx context.Context, req JobRequest) (*JobResult, error) {
	tx, err := e.storage.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// The per-prefix sequence lives in the same transaction, so a rolled-back
	// attempt never burns an identifier another request could collide with.
	jobID, err := idgen.New(tx).Generate(ctx, req.Type, req.Branch)
	if err != nil {
		return nil, fmt.Errorf("identifier generation: %w", err)
	}

	items := parser.ParseRepairItems(req.RepairDesc)
	region := model.RegionFromBranch(req.Branch)
	outcomes := make([]ItemOutcome, 0, len(items))

	for _, item := range items {
		outcome, err := match.Resolve(ctx, tx, item.Part)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", item.Part, err)
		}

		if !outcome.Matched() {
			if e.config.StrictStockMatching {
				return nil, fmt.Errorf("%w: %q", common.ErrStrictMatching, item.Part)
			}
			slog.Warn("Stock item not found in inventory",
				"job_id", jobID,
				"part", item.Part,
				"quantity", item.Quantity)
			outcomes = append(outcomes, ItemOutcome{Item: item, Outcome: outcome})
			continue
		}

		if err := tx.DeductStock(ctx, outcome.Item.PartName, region, item.Quantity, e.config.AllowNegativeStock); err != nil {
			return nil, fmt.Errorf("deducting %d x %q: %w", item.Quantity, outcome.Item.PartName, err)
		}

		if outcome.Kind == model.MatchFuzzy {
			slog.Info("Fuzzy match deduction",
				"job_id", jobID,
				"search_term", outcome.SearchTerm,
				"matched", outcome.Item.PartName,
				"quantity", item.Quantity)
		}
		outcomes = append(outcomes, ItemOutcome{Item: item, Outcome: outcome})
	}

	job := &model.Job{
		ID:          jobID,
		Branch:      req.Branch,
		Customer:    req.Customer,
		Phone:       req.Phone,
		DeviceModel: req.DeviceModel,
		RepairDesc:  req.RepairDesc,
		Price:       req.Price,
		Status:      model.StatusPending,
		CreatedAt:   time.Now(),
	}
	if err := tx.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("persisting job %s: %w", jobID, err)
	}

	entry := model.NewActivityEntry(req.Actor, "CREATE_JOB",
		fmt.Sprintf("Job %s created for %s at %s", jobID, req.Customer, req.Branch))
	if err := tx.LogActivity(ctx, entry); err != nil {
		return nil, fmt.Errorf("recording activity for job %s: %w", jobID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing job %s: %w", jobID, err)
	}
	committed = true

	return &JobResult{Job: job, Items: outcomes}, nil
}

// IsStrictMatchFailure reports whether a job creation failed because strict
// matching rejected an unmatched line item.
func IsStrictMatchFailure(err error) bool {
	return errors.Is(err, common.ErrStrictMatching)
}
