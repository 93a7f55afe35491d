// Package module defines the minimal contract for a modkit module plus port lookup helpers
package module

import (
	phttp "shiftlog/internal/platform/net/http"
)

// Module mirrors modkit.Module; it lives here so port helpers avoid importing modkit
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
