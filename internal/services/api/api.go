// Package api provides the HTTP API for the application
package api

import (
	"shiftlog/internal/platform/config"
	"shiftlog/internal/platform/logger"
	phttp "shiftlog/internal/platform/net/http"

	"shiftlog/internal/modkit"
	"shiftlog/internal/modkit/httpkit"
	"shiftlog/internal/modkit/module"
	"shiftlog/internal/modkit/swaggerkit"

	metamod "shiftlog/internal/services/api/meta/module"
	"shiftlog/internal/services/timesheet/domain"
	tsmod "shiftlog/internal/services/timesheet/module"
)

// ServiceName is reported by the meta endpoints
const ServiceName = "shiftlog-api"

// Options are the API options
type Options struct {
	Config         config.Conf
	Logger         *logger.Logger
	Notifier       domain.NotifierPort // nil uses SERVICE_SMTP_*
	Source         domain.SourcePort   // nil reads csv files
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router and returns the live
// timesheet session
func Mount(r phttp.Router, opt Options) domain.ServicePort {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		Log: opt.Logger,
	}

	timesheets := tsmod.New(deps, modkit.WithPorts(tsmod.Ports{
		Notifier: opt.Notifier,
		Source:   opt.Source,
	}))
	session := module.MustPortsOf[domain.ServicePort](timesheets)

	mods := []module.Module{
		metamod.New(deps, ServiceName, modkit.WithPorts(metamod.Ports{Session: session})),
		timesheets,
	}

	// Swagger + profiler live outside the versioned stack
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Config.Prefix("CORE_API_")), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
	return session
}
