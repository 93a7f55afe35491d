package http

import "net/http"

// PostJSON mounts a pure JSON handler for POST with a required body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(h))
}

// PostJSONOptional mounts a POST handler whose body may be empty
func PostJSONOptional[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandlerOptionalBody(h))
}
