package domain

import (
	"fmt"

	"shiftlog/internal/core/timesheet"
)

// IngestInput is the ingest payload: raw six field rows in column order
// employee id, name, contact, period start, period end, hours
type IngestInput struct {
	Rows [][]string `json:"rows" validate:"required,min=1"`
}

// ThresholdInput selects the hour threshold; zero or absent means the configured default
type ThresholdInput struct {
	Threshold int `json:"threshold" validate:"omitempty,min=1" example:"15"`
}

// Aggregate is one employee's running total as returned to callers
type Aggregate struct {
	EmployeeID     int64  `json:"employee_id"     example:"1"`
	Name           string `json:"name"            example:"testname"`
	ContactAddress string `json:"contact_address" example:"test@mail.com"`
	HoursTotal     int    `json:"hours_total"     example:"16"`
	RecordCount    int    `json:"record_count"    example:"2"`
}

func (a Aggregate) String() string {
	return fmt.Sprintf("id: %d name: %s contact_info: %s hours: %d",
		a.EmployeeID, a.Name, a.ContactAddress, a.HoursTotal)
}

// AggregateFrom copies a core aggregate into the transport shape
func AggregateFrom(a timesheet.Aggregate) Aggregate {
	return Aggregate{
		EmployeeID:     a.EmployeeID,
		Name:           a.Name,
		ContactAddress: a.ContactAddress,
		HoursTotal:     a.HoursTotal,
		RecordCount:    a.RecordCount,
	}
}

// AggregatesFrom maps a slice of core aggregates; never returns nil
func AggregatesFrom(in []timesheet.Aggregate) []Aggregate {
	out := make([]Aggregate, 0, len(in))
	for _, a := range in {
		out = append(out, AggregateFrom(a))
	}
	return out
}

// IngestResult reports one ingestion batch
type IngestResult struct {
	BatchID       string                 `json:"batch_id"`
	AdmittedCount int                    `json:"admitted_count"`
	RejectedCount int                    `json:"rejected_count"`
	Diagnostics   []timesheet.Diagnostic `json:"diagnostics"`
	Employees     int                    `json:"employees"`
}

// NotifyResult reports one notification pass over the expired set
type NotifyResult struct {
	Threshold int               `json:"threshold"`
	Expired   int               `json:"expired"`
	Addresses []string          `json:"addresses"`
	Delivered []string          `json:"delivered"`
	Rejected  map[string]string `json:"rejected,omitempty"`
}

// LoadResult is what loading a file produced: the ingest report plus the optional
// notification pass that follows it
type LoadResult struct {
	Path        string        `json:"path"`
	Ingest      IngestResult  `json:"ingest"`
	Notify      *NotifyResult `json:"notify,omitempty"`
	NotifyError string        `json:"notify_error,omitempty"`
}
