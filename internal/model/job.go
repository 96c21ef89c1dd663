// Package model defines the domain types shared across the ERP core.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobStatus tracks a job through its lifecycle.
type JobStatus string

const (
	// StatusPending is the initial status of every created job.
	StatusPending JobStatus = "Pending"
	// StatusCompleted marks finished work; completed jobs feed reporting.
	StatusCompleted JobStatus = "Completed"
	// StatusCancelled marks abandoned jobs.
	StatusCancelled JobStatus = "Cancelled"
)

// JobType distinguishes repair work from point-of-sale transactions.
type JobType string

const (
	// TypeRepair is a workshop repair order.
	TypeRepair JobType = "Repair"
	// TypeSale is a point-of-sale transaction.
	TypeSale JobType = "Sale"
)

// Code returns the identifier segment for the job type.
func (t JobType) Code() string {
	if t == TypeRepair {
		return "REP"
	}
	return "SAL"
}

// Job is a customer repair or sale record. Created once, atomically with its
// stock deductions; status updates happen through the update flow afterward.
type Job struct {
	CreatedAt   time.Time
	ID          string
	Branch      string
	Customer    string
	Phone       string
	DeviceModel string
	RepairDesc  string
	Status      JobStatus
	Price       decimal.Decimal
}
