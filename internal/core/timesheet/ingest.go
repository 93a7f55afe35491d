package timesheet

import (
	"iter"
	"slices"

	perr "shiftlog/internal/platform/errors"
)

// Diagnostic describes one rejected row
type Diagnostic struct {
	RowIndex int    `json:"row_index"` // zero based position in the input
	Kind     Kind   `json:"kind"`
	Reason   Reason `json:"reason"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
	Err      error  `json:"-"`
}

// Report is the outcome of one ingestion pass
type Report struct {
	AdmittedCount int          `json:"admitted_count"`
	Diagnostics   []Diagnostic `json:"diagnostics"`
}

// Rejected is the number of rows that were diagnosed instead of admitted
func (r Report) Rejected() int { return len(r.Diagnostics) }

// Total is the number of rows consumed
func (r Report) Total() int { return r.AdmittedCount + len(r.Diagnostics) }

// Ingest folds rows into reg in order. A bad row is diagnosed and skipped, it never
// stops the batch. rows is consumed exactly once
func Ingest(rows iter.Seq[[]string], reg *Registry) Report {
	if reg == nil {
		panic("timesheet: Ingest with nil Registry")
	}

	rep := Report{Diagnostics: []Diagnostic{}}
	i := 0
	for fields := range rows {
		rec, err := ParseRecord(fields)
		if err != nil {
			rep.Diagnostics = append(rep.Diagnostics, diagnose(i, err))
		} else {
			reg.Add(rec)
			rep.AdmittedCount++
		}
		i++
	}
	return rep
}

// IngestRows is Ingest over an in-memory slice of rows
func IngestRows(rows [][]string, reg *Registry) Report {
	return Ingest(slices.Values(rows), reg)
}

func diagnose(idx int, err error) Diagnostic {
	d := Diagnostic{
		RowIndex: idx,
		Kind:     KindOf(err),
		Reason:   ReasonOf(err),
		Message:  err.Error(),
		Err:      err,
	}
	if e, ok := perr.As(err); ok {
		d.Field = e.Field()
	}
	return d
}
