package route

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Register runs the whole registration phase: every controller's
// declarations are evaluated, the Store is frozen, and the resulting
// Endpoints are bound and kept for Spec. It may be called once.
func (r *Router) Register(controllers ...Controller) error {
	reg := NewRegistry(WithRegistryLogger(r.logger))
	if err := reg.Declare(controllers...); err != nil {
		return err
	}
	reg.Freeze()
	return r.Mount(reg.Endpoints())
}

// Mount binds every routable endpoint under its full path. Endpoints that
// share a base path share one sub-router, and an endpoint whose full path
// falls under a mounted base is bound on that base's sub-router whatever
// group declared it. A later endpoint landing on the same verb and chi route
// replaces the earlier one unless WithStrictRoutes is set.
func (r *Router) Mount(endpoints []Endpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registered {
		return fmt.Errorf("%w: routes already registered", ErrFrozen)
	}

	var mounts []string
	for _, e := range endpoints {
		if e.Routable() && e.BasePath != "" && !slices.Contains(mounts, e.BasePath) {
			mounts = append(mounts, e.BasePath)
		}
	}

	var (
		bound []Endpoint
		binds []binding
	)
	index := make(map[binding]int)
	for _, e := range endpoints {
		if !e.Routable() {
			continue
		}
		b := locate(mounts, e)
		i, dup := index[b]
		if !dup {
			index[b] = len(bound)
			bound = append(bound, e)
			binds = append(binds, b)
			continue
		}
		if r.strict {
			return fmt.Errorf("%w: %s conflicts with %s", ErrDuplicateRoute, e.Key(), bound[i].Key())
		}
		r.logger.Warn("route redefined, keeping the later handler",
			"method", e.Method,
			"path", e.FullPath,
			"previous", bound[i].Key().String(),
			"handler", e.Key().String(),
		)
		bound[i] = e
	}

	subs := make(map[string]chi.Router)
	var bases []string
	for i, e := range bound {
		b := binds[i]
		var target chi.Router = r.mux
		if b.base != "" {
			sub, ok := subs[b.base]
			if !ok {
				sub = chi.NewRouter()
				subs[b.base] = sub
				bases = append(bases, b.base)
			}
			target = sub
		}

		target.Method(b.method, b.path, e.Chain(r.errorHandler))
		r.logger.Info("route registered",
			"method", e.Method,
			"path", e.FullPath,
			"handler", e.Key().String(),
		)
	}
	for _, base := range bases {
		r.mux.Mount(base, subs[base])
	}

	r.endpoints = append(r.endpoints, endpoints...)
	r.routes = bound
	r.registered = true
	return nil
}

// binding is where an endpoint lands in chi: the mounted base (empty for
// the root mux) and the pattern inside it.
type binding struct {
	method string
	base   string
	path   string
}

// locate picks the longest mounted base covering e's full path. chi hands
// every request under a mounted base to its sub-router, so a route bound
// beside the mount would never be reached.
func locate(mounts []string, e Endpoint) binding {
	base := ""
	for _, m := range mounts {
		if len(m) > len(base) && (e.FullPath == m || strings.HasPrefix(e.FullPath, m+"/")) {
			base = m
		}
	}
	return binding{
		method: e.Method,
		base:   base,
		path:   chiPath(strings.TrimPrefix(e.FullPath, base)),
	}
}

func chiPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

// URLParam returns the value of a path parameter bound by the router.
func URLParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
