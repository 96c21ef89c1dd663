package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/fixhub/fixhub/internal/model"
	"github.com/fixhub/fixhub/internal/service"
	"github.com/shopspring/decimal"
)

func makeTestJob(id, branch string) *model.Job {
	return &model.Job{
		ID:          id,
		Branch:      branch,
		Customer:    "Alex Tan",
		Phone:       "012-3456789",
		DeviceModel: "iPhone 11",
		RepairDesc:  "Screen (x1)",
		Price:       decimal.NewFromFloat(149.90),
		Status:      model.StatusPending,
	}
}

func TestSaveAndGetJob(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	job := makeTestJob("N-REP-00001", "North Plaza")
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}
	if job.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be stamped")
	}

	got, err := store.GetJob(ctx, "N-REP-00001")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.Customer != "Alex Tan" || got.DeviceModel != "iPhone 11" {
		t.Errorf("Unexpected job fields: %+v", got)
	}
	if !got.Price.Equal(decimal.NewFromFloat(149.90)) {
		t.Errorf("Unexpected price: %s", got.Price)
	}
	if got.Status != model.StatusPending {
		t.Errorf("Expected Pending status, got %s", got.Status)
	}
}

func TestSaveJobDuplicateID(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveJob(ctx, makeTestJob("N-REP-00001", "North Plaza")); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}
	err := store.SaveJob(ctx, makeTestJob("N-REP-00001", "North Plaza"))
	if !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("Expected ErrDuplicateEntry, got %v", err)
	}
}

func TestGetJobNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetJob(context.Background(), "S-SAL-99999")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListJobs(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, j := range []*model.Job{
		makeTestJob("N-REP-00001", "North Plaza"),
		makeTestJob("N-REP-00002", "North Plaza"),
		makeTestJob("S-REP-00001", "Downtown"),
	} {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}
	}
	if err := store.UpdateJobStatus(ctx, "N-REP-00002", model.StatusCompleted); err != nil {
		t.Fatalf("UpdateJobStatus failed: %v", err)
	}

	tests := []struct {
		name    string
		filter  service.JobFilter
		wantIDs []string
	}{
		{
			name:    "all jobs most recent first",
			filter:  service.JobFilter{},
			wantIDs: []string{"S-REP-00001", "N-REP-00002", "N-REP-00001"},
		},
		{
			name:    "filter by branch",
			filter:  service.JobFilter{Branch: "North Plaza"},
			wantIDs: []string{"N-REP-00002", "N-REP-00001"},
		},
		{
			name:    "filter by status",
			filter:  service.JobFilter{Status: model.StatusCompleted},
			wantIDs: []string{"N-REP-00002"},
		},
		{
			name:    "limit",
			filter:  service.JobFilter{Limit: 1},
			wantIDs: []string{"S-REP-00001"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := store.ListJobs(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListJobs failed: %v", err)
			}
			if len(jobs) != len(tt.wantIDs) {
				t.Fatalf("Expected %d jobs, got %d", len(tt.wantIDs), len(jobs))
			}
			for i, want := range tt.wantIDs {
				if jobs[i].ID != want {
					t.Errorf("Job %d: expected %s, got %s", i, want, jobs[i].ID)
				}
			}
		})
	}
}

func TestUpdateJobStatusNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.UpdateJobStatus(context.Background(), "N-REP-00099", model.StatusCompleted)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTransactionRollbackDiscardsWrites(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seedStock(t, store, model.StockItem{PartName: "Battery", StockNorth: 10})

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	if err := tx.DeductStock(ctx, "Battery", model.RegionNorth, 4, true); err != nil {
		t.Fatalf("DeductStock failed: %v", err)
	}
	if err := tx.SaveJob(ctx, makeTestJob("N-REP-00001", "North Plaza")); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	item, err := store.GetStockItem(ctx, "Battery")
	if err != nil {
		t.Fatalf("GetStockItem failed: %v", err)
	}
	if item.StockNorth != 10 {
		t.Errorf("Expected deduction to be rolled back, got %d", item.StockNorth)
	}
	if _, err := store.GetJob(ctx, "N-REP-00001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected job insert to be rolled back, got %v", err)
	}
}
