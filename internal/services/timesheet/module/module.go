// Package module wires timesheets into the API using modkit
package module

import (
	"shiftlog/internal/adapters/notify/smtp"
	"shiftlog/internal/adapters/source/csvfile"
	modkit "shiftlog/internal/modkit"
	"shiftlog/internal/modkit/httpkit"
	str "shiftlog/internal/platform/strings"
	"shiftlog/internal/services/timesheet/domain"
	tshttp "shiftlog/internal/services/timesheet/http"
	tssvc "shiftlog/internal/services/timesheet/service"
)

// Ports are the adapters the module consumes; inject with modkit.WithPorts.
// A nil Notifier falls back to the SMTP relay from SERVICE_SMTP_*, a nil Source to csv files
type Ports struct {
	Notifier domain.NotifierPort
	Source   domain.SourcePort
}

// Module implements the timesheet module
type Module struct {
	b   modkit.Built
	svc *tssvc.Svc
}

// New constructs the timesheet module. Options come from CORE_TIMESHEET_*
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("timesheets"),
		modkit.WithPrefix("/timesheets"),
	}, opts...)...)

	in := resolvePorts(deps, b)
	svc := tssvc.New(
		in.Notifier,
		in.Source,
		tssvc.OptionsFromConfig(deps.Cfg.Prefix("CORE_TIMESHEET_")),
		deps.Logger("timesheet"),
	)
	return &Module{b: b, svc: svc}
}

func resolvePorts(deps modkit.Deps, b modkit.Built) Ports {
	in, _ := modkit.PortsAs[Ports](b)
	if in.Notifier == nil {
		in.Notifier = smtp.FromConfigOrDisabled(smtp.FromConfig(deps.Cfg.Prefix("SERVICE_SMTP_")))
	}
	if in.Source == nil {
		in.Source = csvfile.Source{}
	}
	return in
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { tshttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports exposes the session service to other modules
func (m *Module) Ports() any { return domain.ServicePort(m.svc) }

// Service returns the session service for in-process callers such as the shell
func (m *Module) Service() domain.ServicePort { return m.svc }
