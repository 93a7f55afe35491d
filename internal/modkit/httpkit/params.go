package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	perr "shiftlog/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

// Param returns the trimmed path parameter name
func Param(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// ParamInt64 parses a non-negative integer path parameter; failures carry the field name
func ParamInt64(r *http.Request, name string) (int64, error) {
	s := Param(r, name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, perr.WithField(perr.InvalidArgf("%s must be a non-negative integer, got %q", name, s), name)
	}
	return v, nil
}
