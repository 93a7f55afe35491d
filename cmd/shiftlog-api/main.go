// @title         shiftlog API
// @version       0.1.0
// @description   Timesheet ingestion, hour totals and threshold notifications

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shiftlog/internal/platform/config"
	"shiftlog/internal/platform/logger"
	phttp "shiftlog/internal/platform/net/http"
	"shiftlog/internal/platform/net/middleware"

	"shiftlog/internal/services/api"

	"github.com/go-chi/chi/v5"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// http server (reads CORE_API_PORT and the timeouts); heartbeat sits on the root mux
	srv := phttp.NewServer(apiCfg, func(m *chi.Mux) {
		m.Use(middleware.Heartbeat("/ping"))
	})

	// mount our API; the timesheet module reads CORE_TIMESHEET_* and SERVICE_SMTP_* from root
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	l.Info().Str("addr", srv.Addr()).Msg("shiftlog api listening")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("shiftlog api stopped")
}
