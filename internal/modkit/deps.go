// Package modkit provides module wiring and shared deps
package modkit

import (
	"time"

	"shiftlog/internal/platform/config"
	"shiftlog/internal/platform/logger"
)

// Deps holds the shared dependencies handed to every module.
// Adapters a single module needs travel through WithPorts instead
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf
	Now func() time.Time
}

// Logger returns d.Log or the root logger named for component
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log != nil {
		l := d.Log.With().Str("component", component).Logger()
		return &l
	}
	return logger.Named(component)
}

// Clock returns d.Now or time.Now
func (d Deps) Clock() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}
