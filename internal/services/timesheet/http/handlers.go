// Package http provides http transport for timesheets
package http

import (
	stdhttp "net/http"

	"shiftlog/internal/modkit/httpkit"
	"shiftlog/internal/services/timesheet/domain"
)

// Register mounts timesheet endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// raw rows into the session
	httpkit.PostJSON[domain.IngestInput](r, "/ingest", h.ingest)

	// aggregates
	httpkit.Get(r, "/employees", h.employees)
	httpkit.Get(r, "/employees/{id}", h.employee)

	// threshold selection and notification
	httpkit.PostJSONOptional[domain.ThresholdInput](r, "/expired", h.expired)
	httpkit.PostJSONOptional[domain.ThresholdInput](r, "/notify", h.notify)

	httpkit.Delete(r, "/session", h.reset)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Ingest raw timesheet rows
// @Tags Timesheets
// @Accept json
// @Produce json
// @Param payload body domain.IngestInput true "Rows"
// @Success 200 {object} domain.IngestResult "ok"
// @Router /timesheets/ingest [post]
func (h *handlers) ingest(r *stdhttp.Request, in domain.IngestInput) (any, error) {
	return h.svc.IngestRows(r.Context(), in.Rows), nil
}

// @Summary List every aggregate in the session
// @Tags Timesheets
// @Produce json
// @Router /timesheets/employees [get]
func (h *handlers) employees(r *stdhttp.Request) (any, error) {
	return httpkit.List(h.svc.Employees(r.Context())), nil
}

// @Summary Fetch one aggregate
// @Tags Timesheets
// @Produce json
// @Router /timesheets/employees/{id} [get]
func (h *handlers) employee(r *stdhttp.Request) (any, error) {
	id, err := httpkit.ParamInt64(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.Employee(r.Context(), id)
}

// @Summary Select employees at or above the threshold
// @Tags Timesheets
// @Accept json
// @Produce json
// @Router /timesheets/expired [post]
func (h *handlers) expired(r *stdhttp.Request, in domain.ThresholdInput) (any, error) {
	items := h.svc.Expired(r.Context(), in.Threshold)
	return httpkit.ListBody[domain.Aggregate]{Items: items, Count: len(items)}, nil
}

// @Summary Notify the contacts of expired employees
// @Tags Timesheets
// @Accept json
// @Produce json
// @Router /timesheets/notify [post]
func (h *handlers) notify(r *stdhttp.Request, in domain.ThresholdInput) (any, error) {
	return h.svc.NotifyExpired(r.Context(), in.Threshold)
}

// @Summary Discard the session
// @Tags Timesheets
// @Router /timesheets/session [delete]
func (h *handlers) reset(r *stdhttp.Request) (any, error) {
	h.svc.Reset(r.Context())
	return httpkit.NoContent(), nil
}
