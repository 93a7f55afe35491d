// Package csvfile streams timesheet rows from comma separated files
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	perr "shiftlog/internal/platform/errors"
	"shiftlog/internal/platform/logger"
	str "shiftlog/internal/platform/strings"
	"shiftlog/internal/services/timesheet/domain"
)

// Extension is the only accepted file extension
const Extension = "csv"

// ErrBadPath is returned when the argument does not name a .csv file
var ErrBadPath = perr.New(perr.ErrorCodeInvalidArgument, "file does not valid")

// CheckPath takes the first whitespace separated token of arg and accepts it when the
// base name is <name>.csv with exactly one extension
func CheckPath(arg string) (string, error) {
	p := str.FirstField(arg)
	if p == "" {
		return "", perr.WithField(ErrBadPath, "path")
	}
	parts := strings.Split(filepath.Base(p), ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] != Extension {
		return "", perr.WithField(ErrBadPath, "path")
	}
	return p, nil
}

// Reader streams rows from one csv file. Rows may carry any number of fields;
// judging the row shape is left to the caller
type Reader struct {
	f    io.ReadCloser
	cr   *csv.Reader
	path string
	err  error
	rows int
	used bool
}

// Open validates path and opens it for reading
func Open(path string) (*Reader, error) {
	p, err := CheckPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeNotFound, "open %s", p), "path")
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "open %s", p)
	}
	return NewReader(f, p), nil
}

// NewReader wraps an already open stream; name is used in errors and logs
func NewReader(r io.ReadCloser, name string) *Reader {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = ','
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &Reader{f: r, cr: cr, path: name}
}

// Rows yields each row once, in file order. Iteration stops at the first read error,
// which Err then reports. Ranging a second time yields nothing
func (rd *Reader) Rows() iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		if rd.used {
			return
		}
		rd.used = true
		for {
			rec, err := rd.cr.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				rd.err = perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read %s", rd.path)
				return
			}
			rd.rows++
			if !yield(rec) {
				return
			}
		}
	}
}

// Err returns the read error that ended Rows early, if any
func (rd *Reader) Err() error { return rd.err }

// Count is the number of rows yielded so far
func (rd *Reader) Count() int { return rd.rows }

// Close closes the underlying file
func (rd *Reader) Close() error {
	if rd.f == nil {
		return nil
	}
	err := rd.f.Close()
	rd.f = nil
	l := logger.Named("csvfile")
	l.Debug().Str("path", rd.path).Int("rows", rd.rows).Msg("csv source closed")
	return err
}

// Source opens csv files for the timesheet service
type Source struct{}

// Open implements domain.SourcePort
func (Source) Open(ctx context.Context, path string) (domain.RowSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path)
}
