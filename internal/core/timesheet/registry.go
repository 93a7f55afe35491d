package timesheet

import (
	"cmp"
	"fmt"
	"slices"
)

// DefaultThreshold is the accumulated hours at which an employee is selected for notification
const DefaultThreshold = 15

// Aggregate is the running total for one employee. Identity fields come from the
// first admitted record and are never overwritten by later merges
type Aggregate struct {
	EmployeeID     int64  `json:"employee_id"`
	Name           string `json:"name"`
	ContactAddress string `json:"contact_address"`
	HoursTotal     int    `json:"hours_total"`
	RecordCount    int    `json:"record_count"`
}

func (a Aggregate) String() string {
	return fmt.Sprintf("id: %d name: %s contact_info: %s hours: %d records: %d",
		a.EmployeeID, a.Name, a.ContactAddress, a.HoursTotal, a.RecordCount)
}

// Registry is the in-memory store of aggregates keyed by employee id.
// It is not safe for concurrent use; callers that share one must serialize access
type Registry struct {
	byID map[int64]*Aggregate
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{byID: make(map[int64]*Aggregate)}
}

// Add merges rec into the aggregate for its employee, creating it on first sight.
// Merging is additive: the same record added twice counts twice
func (r *Registry) Add(rec Record) {
	if r == nil {
		panic("timesheet: Add on nil Registry")
	}
	if r.byID == nil {
		r.byID = make(map[int64]*Aggregate)
	}

	a := r.byID[rec.employeeID]
	if a == nil {
		a = &Aggregate{EmployeeID: rec.employeeID, Name: rec.name, ContactAddress: rec.contact}
		r.byID[rec.employeeID] = a
	}
	a.HoursTotal += rec.hours
	a.RecordCount++
}

// Expired returns a copy of every aggregate with HoursTotal >= threshold, ordered by
// employee id. A threshold below 1 selects everyone
func (r *Registry) Expired(threshold int) []Aggregate {
	return r.collect(func(a *Aggregate) bool { return a.HoursTotal >= threshold })
}

// All returns a copy of every aggregate ordered by employee id
func (r *Registry) All() []Aggregate {
	return r.collect(func(*Aggregate) bool { return true })
}

// Get returns a copy of the aggregate for id
func (r *Registry) Get(id int64) (Aggregate, bool) {
	if r == nil {
		return Aggregate{}, false
	}
	a, ok := r.byID[id]
	if !ok {
		return Aggregate{}, false
	}
	return *a, true
}

// Size is the number of distinct employees tracked
func (r *Registry) Size() int {
	if r == nil {
		return 0
	}
	return len(r.byID)
}

func (r *Registry) collect(keep func(*Aggregate) bool) []Aggregate {
	if r == nil {
		return nil
	}
	out := make([]Aggregate, 0, len(r.byID))
	for _, a := range r.byID {
		if keep(a) {
			out = append(out, *a)
		}
	}
	slices.SortFunc(out, func(x, y Aggregate) int { return cmp.Compare(x.EmployeeID, y.EmployeeID) })
	return out
}
