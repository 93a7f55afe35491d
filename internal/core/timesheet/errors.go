package timesheet

import (
	"errors"
	"fmt"

	perr "shiftlog/internal/platform/errors"
)

// Kind classifies a rejected row
type Kind uint8

const (
	// KindNone is the zero value, never attached to a diagnostic
	KindNone Kind = iota
	// KindMalformedTimestamp covers unparseable timestamps and rows with the wrong field count
	KindMalformedTimestamp
	// KindInvalidRecord covers rows that parse but break a record invariant
	KindInvalidRecord
)

// String returns the wire name of the kind
func (k Kind) String() string {
	switch k {
	case KindMalformedTimestamp:
		return "malformed_timestamp"
	case KindInvalidRecord:
		return "invalid_record"
	default:
		return "none"
	}
}

// MarshalText renders the kind by name in JSON payloads
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k Kind) sentinel() error {
	switch k {
	case KindMalformedTimestamp:
		return ErrMalformedTimestamp
	case KindInvalidRecord:
		return ErrInvalidRecord
	default:
		return nil
	}
}

func (k Kind) code() perr.ErrorCode {
	if k == KindMalformedTimestamp {
		return perr.ErrorCodeMalformedTimestamp
	}
	return perr.ErrorCodeInvalidRecord
}

// Reason names the exact rule a rejected row broke
type Reason string

// Structural reasons (KindMalformedTimestamp)
const (
	ReasonFieldCount   Reason = "field_count"
	ReasonBadTimestamp Reason = "bad_timestamp"
)

// Invariant reasons (KindInvalidRecord)
const (
	ReasonBadNumber          Reason = "bad_number"
	ReasonNegativeEmployeeID Reason = "negative_employee_id"
	ReasonEmptyName          Reason = "empty_name"
	ReasonBadOrdering        Reason = "bad_ordering"      // period end not after period start
	ReasonHoursOutOfRange    Reason = "hours_out_of_range" // hours outside 1..11
	ReasonSpanTooLong        Reason = "span_too_long"      // period spans 24h or more
)

var (
	// ErrMalformedTimestamp matches (errors.Is) every structural row failure
	ErrMalformedTimestamp = perr.New(perr.ErrorCodeMalformedTimestamp, "malformed timestamp")
	// ErrInvalidRecord matches (errors.Is) every invariant violation
	ErrInvalidRecord = perr.New(perr.ErrorCodeInvalidRecord, "invalid record")
)

// violation is the innermost cause of a rejected row; it carries the reason and
// reports itself as its kind's sentinel so errors.Is works through perr wrapping
type violation struct {
	kind   Kind
	reason Reason
	detail string
}

func (v *violation) Error() string { return v.detail }

func (v *violation) Is(target error) bool { return target == v.kind.sentinel() }

// reject builds the project error for a rejected row
func reject(kind Kind, reason Reason, field, format string, a ...any) error {
	v := &violation{kind: kind, reason: reason, detail: fmt.Sprintf(format, a...)}
	msg := "invalid record"
	if kind == KindMalformedTimestamp {
		msg = "malformed timestamp"
	}
	err := perr.Wrap(v, kind.code(), msg)
	if field != "" {
		err = perr.WithField(err, field)
	}
	return perr.WithOp(err, "timesheet."+string(reason))
}

// KindOf classifies err; KindNone when err did not come from this package
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMalformedTimestamp):
		return KindMalformedTimestamp
	case errors.Is(err, ErrInvalidRecord):
		return KindInvalidRecord
	default:
		return KindNone
	}
}

// ReasonOf returns the rule err broke, or "" for foreign errors
func ReasonOf(err error) Reason {
	var v *violation
	if errors.As(err, &v) {
		return v.reason
	}
	return ""
}
