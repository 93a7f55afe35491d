package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"shiftlog/internal/platform/config"
	"shiftlog/internal/platform/net/middleware"
)

// CommonStack returns the middleware every API scope runs. cfg is usually prefixed
// "CORE_API_": CORS_ORIGINS, MAX_BODY_BYTES, REQUEST_TIMEOUT, SLOW_REQUEST
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{
			Slow: cfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
		}),
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", []string{"*"}),
			MaxAge:         300,
		}),
		middleware.MaxBody(int64(cfg.MayPositiveInt("MAX_BODY_BYTES", 4<<20))),
		middleware.Compress(flate.BestSpeed),
		middleware.Timeout(cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second)),
	}
}
