package route

import (
	"fmt"
	"net/http"
)

// Endpoint is the unified descriptor of one handler, produced by a single
// walk over the frozen Store. The same value drives both route binding and
// documentation.
type Endpoint struct {
	Group    string
	Name     string
	BasePath string

	Method   string
	Path     string
	FullPath string

	GroupMiddleware []Middleware
	Validation      *Validation
	Middleware      []Middleware
	Handler         http.HandlerFunc

	Summary     string
	Description string
	DocPath     string
	Tags        []string
	Deprecated  bool
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   OperationResp
	Files       []FileParam

	hasPath bool
}

// Key returns the store key the endpoint was built from.
func (e *Endpoint) Key() HandlerKey {
	return HandlerKey{Group: e.Group, Handler: e.Name}
}

// Routable reports whether the endpoint has both a verb and a path.
func (e *Endpoint) Routable() bool {
	return e.Method != "" && e.hasPath
}

// Documented reports whether the endpoint has both a verb and a doc path.
func (e *Endpoint) Documented() bool {
	return e.Method != "" && e.DocPath != ""
}

// Chain assembles [validation, middleware..., handler], wrapped in the
// group's middleware. Validation failures are written with onError, or as
// problem details when it is nil.
func (e *Endpoint) Chain(onError ErrorHandler) http.Handler {
	var h http.Handler = e.Handler
	for i := len(e.Middleware) - 1; i >= 0; i-- {
		h = e.Middleware[i](h)
	}
	if e.Validation != nil {
		h = e.Validation.Middleware(onError)(h)
	}
	for i := len(e.GroupMiddleware) - 1; i >= 0; i-- {
		h = e.GroupMiddleware[i](h)
	}
	return h
}

// String describes the endpoint for logs.
func (e *Endpoint) String() string {
	return fmt.Sprintf("%s %s (%s)", e.Method, e.FullPath, e.Key())
}
