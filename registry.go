package route

import (
	"errors"
	"log/slog"
	"net/http"
)

// Registry runs the declaration phase for a set of controllers and then
// produces their Endpoints in one pass over the frozen Store.
type Registry struct {
	store  *Store
	groups []declaredGroup
	logger *slog.Logger
}

type declaredGroup struct {
	name       string
	middleware []Middleware
	handlers   []Def
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for declaration diagnostics.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithStore declares into an existing Store instead of a fresh one.
func WithStore(s *Store) RegistryOption {
	return func(r *Registry) {
		r.store = s
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	if r.store == nil {
		r.store = NewStore()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Store returns the registry's metadata store.
func (r *Registry) Store() *Store { return r.store }

// Declare evaluates every controller's declarations in order. All malformed
// declarations are logged and returned together; well-formed ones are still
// recorded.
func (r *Registry) Declare(controllers ...Controller) error {
	if r.store.Frozen() {
		return ErrFrozen
	}

	var errs []error
	for _, c := range controllers {
		if c == nil {
			errs = append(errs, malformed("nil controller"))
			continue
		}
		if err := r.declareGroup(c.Routes()); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		r.logger.Warn("malformed declarations", "error", err)
	}
	return err
}

func (r *Registry) declareGroup(g Group) error {
	name := g.key()
	for _, dg := range r.groups {
		if dg.name == name {
			return malformed("group %q declared twice", name)
		}
	}

	gk := GroupKey(name)
	if err := r.store.Set(gk, AttrBasePath, normalizePath(g.Prefix)); err != nil {
		return err
	}
	if len(g.Tags) > 0 {
		if err := r.store.Set(gk, AttrGroupTags, append([]string(nil), g.Tags...)); err != nil {
			return err
		}
	}

	var errs []error
	dg := declaredGroup{name: name}
	for i, m := range g.Middleware {
		if m == nil {
			errs = append(errs, malformed("group %q: middleware %d is nil", name, i))
			continue
		}
		dg.middleware = append(dg.middleware, m)
	}

	seen := make(map[string]bool, len(g.Handlers))
	for _, d := range g.Handlers {
		key := HandlerKey{Group: name, Handler: d.Name}
		switch {
		case d.Name == "":
			errs = append(errs, malformed("group %q: handler without a name", name))
			continue
		case seen[d.Name]:
			errs = append(errs, malformed("%s: handler declared twice", key))
			continue
		case d.Handler == nil:
			errs = append(errs, malformed("%s: nil handler func", key))
			continue
		}
		seen[d.Name] = true
		dg.handlers = append(dg.handlers, d)

		for _, decl := range d.Declarations {
			if decl == nil {
				errs = append(errs, malformed("%s: nil declaration", key))
				continue
			}
			if err := decl(r.store, key); err != nil {
				errs = append(errs, err)
			}
		}
	}

	r.groups = append(r.groups, dg)
	return errors.Join(errs...)
}

// Freeze ends the declaration phase. Endpoints freezes implicitly.
func (r *Registry) Freeze() { r.store.Freeze() }

// Endpoints freezes the Store and walks every declared handler once, in
// controller then handler order. Handlers lacking a verb produce an
// Endpoint that is neither routable nor documented.
func (r *Registry) Endpoints() []Endpoint {
	r.store.Freeze()

	var out []Endpoint
	for _, g := range r.groups {
		gk := GroupKey(g.name)
		base := Lookup(r.store, gk, AttrBasePath, "")
		groupTags := Lookup[[]string](r.store, gk, AttrGroupTags, nil)

		for _, d := range g.handlers {
			e := r.endpoint(HandlerKey{Group: g.name, Handler: d.Name}, base, d.Handler)
			e.GroupMiddleware = g.middleware
			e.Tags = append(append([]string(nil), groupTags...), e.Tags...)

			if !e.Routable() && !e.Documented() {
				r.logger.Debug("handler has no route", "handler", e.Key().String())
			}
			out = append(out, e)
		}
	}
	return out
}

func (r *Registry) endpoint(key HandlerKey, base string, h http.HandlerFunc) Endpoint {
	s := r.store
	e := Endpoint{
		Group:    key.Group,
		Name:     key.Handler,
		BasePath: base,
		Handler:  h,

		Method:     Lookup(s, key, AttrVerb, ""),
		Path:       Lookup(s, key, AttrPath, ""),
		Validation: Lookup[*Validation](s, key, AttrValidations, nil),
		Middleware: Lookup[[]Middleware](s, key, AttrMiddlewares, nil),

		Summary:     Lookup(s, key, AttrSummary, ""),
		Description: Lookup(s, key, AttrDescription, ""),
		DocPath:     Lookup(s, key, AttrDocPath, ""),
		Tags:        Lookup[[]string](s, key, AttrTags, nil),
		Deprecated:  Lookup(s, key, AttrDeprecated, false),
		RequestBody: Lookup[*RequestBody](s, key, AttrBody, nil),
		Responses:   Lookup[OperationResp](s, key, AttrResponses, nil),
		Files:       Lookup[[]FileParam](s, key, AttrFiles, nil),
	}
	_, e.hasPath = s.Get(key, AttrPath)
	if e.Routable() {
		e.FullPath = joinPath(base, e.Path)
	}

	e.Parameters = append(e.Parameters, Lookup[[]Parameter](s, key, AttrParams, nil)...)
	e.Parameters = append(e.Parameters, Lookup[[]Parameter](s, key, AttrQuery, nil)...)
	return e
}
