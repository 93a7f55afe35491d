// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "shiftlog/internal/modkit"
	"shiftlog/internal/modkit/httpkit"
	str "shiftlog/internal/platform/strings"

	metahttp "shiftlog/internal/services/api/meta/http"
)

// Ports are optional inputs; Session feeds the employee count on /meta/service
type Ports struct {
	Session metahttp.Sizer
}

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	deps      modkit.Deps
	service   string
	session   metahttp.Sizer
	startedAt time.Time
}

// New constructs a meta module reporting as service
func New(deps modkit.Deps, service string, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	in, _ := modkit.PortsAs[Ports](b)
	return &Module{
		b:         b,
		deps:      deps,
		service:   str.MustString(service, "service name"),
		session:   in.Session,
		startedAt: deps.Clock()(),
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: m.service,
			StartedAt:   m.startedAt,
			Now:         m.deps.Clock(),
			Session:     m.session,
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
