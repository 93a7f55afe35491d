package domain

import (
	"context"
	"iter"
)

// Delivery is the outcome of one notification send. Rejected maps a refused
// address to the relay's reply
type Delivery struct {
	Delivered []string
	Rejected  map[string]string
}

// NotifierPort sends the notification message to a set of addresses
type NotifierPort interface {
	Notify(ctx context.Context, addrs []string) (Delivery, error)
}

// RowSource yields raw rows once, in order. Err reports a read failure that cut the
// sequence short
type RowSource interface {
	Rows() iter.Seq[[]string]
	Err() error
	Close() error
}

// SourcePort opens a named row source
type SourcePort interface {
	Open(ctx context.Context, path string) (RowSource, error)
}

// ServicePort is consumed by handlers, the shell, and other modules
type ServicePort interface {
	Load(ctx context.Context, path string) (LoadResult, error)
	IngestRows(ctx context.Context, rows [][]string) IngestResult
	Employees(ctx context.Context) []Aggregate
	Employee(ctx context.Context, id int64) (Aggregate, error)
	Expired(ctx context.Context, threshold int) []Aggregate
	NotifyExpired(ctx context.Context, threshold int) (NotifyResult, error)
	Reset(ctx context.Context)
	Size() int
}
