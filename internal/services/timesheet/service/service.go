// Package service owns the timesheet session: one registry guarded by a mutex,
// ingestion from rows or files, expiry selection and notification
package service

import (
	"context"
	"slices"
	"sync"

	"shiftlog/internal/core/timesheet"
	"shiftlog/internal/platform/config"
	perr "shiftlog/internal/platform/errors"
	"shiftlog/internal/platform/logger"
	str "shiftlog/internal/platform/strings"
	"shiftlog/internal/services/timesheet/domain"

	"github.com/google/uuid"
)

// Service defines the timesheet service contract
type Service interface {
	domain.ServicePort
}

// Options tune session behaviour
type Options struct {
	Threshold  int  // default threshold when a caller passes none
	AutoNotify bool // notify expired employees after every Load
}

// OptionsFromConfig reads THRESHOLD and AUTO_NOTIFY from cfg, usually prefixed "CORE_TIMESHEET_"
func OptionsFromConfig(cfg config.Conf) Options {
	return Options{
		Threshold:  cfg.MayPositiveInt("THRESHOLD", timesheet.DefaultThreshold),
		AutoNotify: cfg.MayBool("AUTO_NOTIFY", true),
	}
}

// Svc implements the timesheet service
type Svc struct {
	mu  sync.Mutex
	reg *timesheet.Registry

	notifier domain.NotifierPort
	source   domain.SourcePort
	opt      Options
	log      *logger.Logger
	newID    func() string
}

// New constructs a timesheet service with an empty session
func New(notifier domain.NotifierPort, source domain.SourcePort, opt Options, log *logger.Logger) *Svc {
	if notifier == nil {
		panic("timesheet.Service requires a non nil NotifierPort")
	}
	if source == nil {
		panic("timesheet.Service requires a non nil SourcePort")
	}
	if opt.Threshold < 1 {
		opt.Threshold = timesheet.DefaultThreshold
	}
	if log == nil {
		log = logger.Named("timesheet")
	}
	return &Svc{
		reg:      timesheet.NewRegistry(),
		notifier: notifier,
		source:   source,
		opt:      opt,
		log:      log,
		newID:    uuid.NewString,
	}
}

// Load ingests every row of the file at path into the session, logs each rejected
// row and, when AutoNotify is on, notifies the expired set. Rows admitted before a
// read failure stay in the session. The file is read before the session lock is
// taken, so other callers only wait for the merge
func (s *Svc) Load(ctx context.Context, path string) (domain.LoadResult, error) {
	out := domain.LoadResult{Path: path}

	src, err := s.source.Open(ctx, path)
	if err != nil {
		return out, err
	}
	defer func() { _ = src.Close() }()

	batch := s.newID()
	ctx = logger.WithBatch(ctx, batch)

	rows := slices.Collect(src.Rows())

	s.mu.Lock()
	rep := timesheet.IngestRows(rows, s.reg)
	size := s.reg.Size()
	s.mu.Unlock()

	out.Ingest = s.result(ctx, batch, rep, size)
	if err := src.Err(); err != nil {
		return out, perr.WithOp(err, "load")
	}

	if s.opt.AutoNotify {
		nr, err := s.NotifyExpired(ctx, 0)
		if err != nil {
			out.NotifyError = err.Error()
		}
		if err == nil || len(nr.Addresses) > 0 {
			out.Notify = &nr
		}
	}
	return out, nil
}

// IngestRows folds in-memory rows into the session
func (s *Svc) IngestRows(ctx context.Context, rows [][]string) domain.IngestResult {
	batch := s.newID()
	ctx = logger.WithBatch(ctx, batch)

	s.mu.Lock()
	rep := timesheet.IngestRows(rows, s.reg)
	size := s.reg.Size()
	s.mu.Unlock()

	return s.result(ctx, batch, rep, size)
}

func (s *Svc) result(ctx context.Context, batch string, rep timesheet.Report, size int) domain.IngestResult {
	l := logger.C(ctx)
	for _, d := range rep.Diagnostics {
		l.Warn().
			Int("row", d.RowIndex).
			Str("kind", d.Kind.String()).
			Str("reason", string(d.Reason)).
			Str("field", d.Field).
			Msg("unable to create employee: " + d.Message)
	}
	l.Info().
		Int("admitted", rep.AdmittedCount).
		Int("rejected", rep.Rejected()).
		Int("employees", size).
		Msg("timesheet batch ingested")

	return domain.IngestResult{
		BatchID:       batch,
		AdmittedCount: rep.AdmittedCount,
		RejectedCount: rep.Rejected(),
		Diagnostics:   rep.Diagnostics,
		Employees:     size,
	}
}

// Employees returns every aggregate ordered by employee id
func (s *Svc) Employees(_ context.Context) []domain.Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.AggregatesFrom(s.reg.All())
}

// Employee returns one aggregate or a not found error
func (s *Svc) Employee(_ context.Context, id int64) (domain.Aggregate, error) {
	s.mu.Lock()
	a, ok := s.reg.Get(id)
	s.mu.Unlock()
	if !ok {
		return domain.Aggregate{}, perr.WithField(perr.NotFoundf("employee %d not found", id), "employee_id")
	}
	return domain.AggregateFrom(a), nil
}

// Expired returns the aggregates at or above threshold; threshold < 1 uses the default
func (s *Svc) Expired(_ context.Context, threshold int) []domain.Aggregate {
	t := s.threshold(threshold)
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.AggregatesFrom(s.reg.Expired(t))
}

// NotifyExpired sends one notification to the contact addresses of the expired set.
// Blank and repeated addresses are dropped; an empty set makes no call. A delivery
// failure is returned and logged, the selection itself is never undone
func (s *Svc) NotifyExpired(ctx context.Context, threshold int) (domain.NotifyResult, error) {
	t := s.threshold(threshold)

	s.mu.Lock()
	expired := s.reg.Expired(t)
	s.mu.Unlock()

	contacts := make([]string, 0, len(expired))
	for _, a := range expired {
		contacts = append(contacts, a.ContactAddress)
	}
	res := domain.NotifyResult{
		Threshold: t,
		Expired:   len(expired),
		Addresses: str.IfEmpty(str.Compact(contacts), []string{}),
		Delivered: []string{},
	}

	l := logger.C(ctx)
	if len(res.Addresses) == 0 {
		l.Debug().Int("threshold", t).Int("expired", res.Expired).Msg("no addresses to notify")
		return res, nil
	}

	d, err := s.notifier.Notify(ctx, res.Addresses)
	res.Delivered = str.IfEmpty(d.Delivered, []string{})
	res.Rejected = d.Rejected
	for addr, reply := range d.Rejected {
		l.Warn().Str("address", addr).Str("reply", reply).Msg("recipient refused")
	}
	if err != nil {
		l.Error().Err(err).
			Bool("retryable", perr.Retryable(err)).
			Int("addresses", len(res.Addresses)).
			Msg("notification failed")
		return res, perr.WithOp(err, "notify")
	}
	l.Info().Int("threshold", t).Int("delivered", len(res.Delivered)).Msg("notification sent")
	return res, nil
}

// Reset discards the session registry
func (s *Svc) Reset(ctx context.Context) {
	s.mu.Lock()
	n := s.reg.Size()
	s.reg = timesheet.NewRegistry()
	s.mu.Unlock()
	logger.C(ctx).Info().Int("discarded", n).Msg("timesheet session reset")
}

// Size is the number of employees in the session
func (s *Svc) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Size()
}

// Threshold is the default threshold in effect
func (s *Svc) Threshold() int { return s.opt.Threshold }

func (s *Svc) threshold(t int) int {
	if t < 1 {
		return s.opt.Threshold
	}
	return t
}
