package httpkit

import (
	"net/http"

	phttp "shiftlog/internal/platform/net/http"
)

// Get registers a no-body handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Delete registers a no-body handler under DELETE
func Delete(r Router, path string, h func(*http.Request) (any, error)) {
	r.Delete(path, Call(h))
}

// PostJSON mounts a bound and validated JSON handler under POST; the body is required
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// PostJSONOptional is PostJSON for bodies that may be omitted
func PostJSONOptional[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSONOptional(r, path, h)
}
