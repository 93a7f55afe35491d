// Package timesheet aggregates per-shift timesheet records into per-employee
// totals and selects the employees whose totals cross a notification threshold
package timesheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// TimestampLayout is the only accepted period timestamp format (YYYY-MM-DD HH:MM:SS)
const TimestampLayout = "2006-01-02 15:04:05"

// FieldCount is the number of fields in a raw row:
// employeeId, name, contactAddress, periodStart, periodEnd, hours
const FieldCount = 6

const (
	// MaxHours is the exclusive upper bound on hours in a single record
	MaxHours = 12
	// MaxSpan is the exclusive upper bound on periodEnd - periodStart
	MaxSpan = 24 * time.Hour
)

// Record is one validated timesheet entry. The zero value is not a valid record;
// build one with NewRecord or ParseRecord
type Record struct {
	employeeID int64
	name       string
	contact    string
	start      time.Time
	end        time.Time
	hours      int
}

// NewRecord validates the fields and returns a Record, or an ErrInvalidRecord
// error naming the broken rule
func NewRecord(employeeID int64, name, contact string, start, end time.Time, hours int) (Record, error) {
	name = norm.NFC.String(strings.TrimSpace(name))

	switch {
	case employeeID < 0:
		return Record{}, reject(KindInvalidRecord, ReasonNegativeEmployeeID, "employee_id",
			"employee id %d is negative", employeeID)
	case name == "":
		return Record{}, reject(KindInvalidRecord, ReasonEmptyName, "name", "name is empty")
	case !start.Before(end):
		return Record{}, reject(KindInvalidRecord, ReasonBadOrdering, "period_end",
			"period end %s is not after period start %s", end.Format(TimestampLayout), start.Format(TimestampLayout))
	case hours <= 0 || hours >= MaxHours:
		return Record{}, reject(KindInvalidRecord, ReasonHoursOutOfRange, "hours",
			"hours %d must be between 1 and %d", hours, MaxHours-1)
	case end.Sub(start) >= MaxSpan:
		return Record{}, reject(KindInvalidRecord, ReasonSpanTooLong, "period_end",
			"period spans %s, must be under %s", end.Sub(start), MaxSpan)
	}

	return Record{
		employeeID: employeeID,
		name:       name,
		contact:    strings.TrimSpace(contact),
		start:      start,
		end:        end,
		hours:      hours,
	}, nil
}

// ParseRecord builds a Record from a raw six-field row. Structural problems
// (field count, timestamps) are reported before any invariant is checked
func ParseRecord(fields []string) (Record, error) {
	if len(fields) != FieldCount {
		return Record{}, reject(KindMalformedTimestamp, ReasonFieldCount, "",
			"row has %d fields, want %d", len(fields), FieldCount)
	}
	f := make([]string, FieldCount)
	for i, v := range fields {
		f[i] = strings.TrimSpace(v)
	}

	start, err := parseTimestampField(f[3], "period_start")
	if err != nil {
		return Record{}, err
	}
	end, err := parseTimestampField(f[4], "period_end")
	if err != nil {
		return Record{}, err
	}

	id, err := strconv.ParseInt(f[0], 10, 64)
	if err != nil {
		return Record{}, reject(KindInvalidRecord, ReasonBadNumber, "employee_id",
			"employee id %q is not an integer", f[0])
	}
	hours, err := strconv.Atoi(f[5])
	if err != nil {
		return Record{}, reject(KindInvalidRecord, ReasonBadNumber, "hours",
			"hours %q is not an integer", f[5])
	}

	return NewRecord(id, f[1], f[2], start, end, hours)
}

// ParseTimestamp parses s with TimestampLayout as a UTC wall clock time
func ParseTimestamp(s string) (time.Time, error) {
	return parseTimestampField(s, "")
}

func parseTimestampField(s, field string) (time.Time, error) {
	v := strings.TrimSpace(s)
	// time.Parse accepts trailing fractional seconds the layout does not name
	t, err := time.Parse(TimestampLayout, v)
	if err != nil || len(v) != len(TimestampLayout) {
		return time.Time{}, reject(KindMalformedTimestamp, ReasonBadTimestamp, field,
			"timestamp %q does not match YYYY-MM-DD HH:MM:SS", s)
	}
	return t, nil
}

// EmployeeID returns the aggregation key
func (r Record) EmployeeID() int64 { return r.employeeID }

// Name returns the trimmed, NFC normalized employee name
func (r Record) Name() string { return r.name }

// ContactAddress returns the forwarding address, unvalidated
func (r Record) ContactAddress() string { return r.contact }

// PeriodStart returns the start of the shift
func (r Record) PeriodStart() time.Time { return r.start }

// PeriodEnd returns the end of the shift
func (r Record) PeriodEnd() time.Time { return r.end }

// Hours returns the worked hours for this shift
func (r Record) Hours() int { return r.hours }

func (r Record) String() string {
	return fmt.Sprintf("id: %d name: %s contact_info: %s hours: %d", r.employeeID, r.name, r.contact, r.hours)
}
