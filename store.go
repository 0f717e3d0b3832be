package route

import "sync"

// Well-known attribute names. Values vary by attribute; readers use Lookup
// so that any attribute may be absent.
const (
	AttrBasePath    = "basePath"
	AttrGroupTags   = "groupTags"
	AttrVerb        = "verb"
	AttrPath        = "path"
	AttrMiddlewares = "middlewares"
	AttrValidations = "validations"
	AttrSummary     = "operation"
	AttrDescription = "description"
	AttrDocPath     = "docPath"
	AttrParams      = "params"
	AttrQuery       = "query"
	AttrBody        = "body"
	AttrResponses   = "responses"
	AttrFiles       = "files"
	AttrTags        = "tags"
	AttrDeprecated  = "deprecated"
)

// HandlerKey identifies one attribute bundle. A key with an empty Handler
// addresses the group itself.
type HandlerKey struct {
	Group   string
	Handler string
}

// GroupKey returns the key that addresses group-level attributes.
func GroupKey(group string) HandlerKey {
	return HandlerKey{Group: group}
}

// Bundle is the set of named attribute values recorded for one handler.
type Bundle map[string]any

// Store accumulates attribute bundles during the declaration phase. Once
// frozen it is read-only; Set returns ErrFrozen.
type Store struct {
	mu      sync.RWMutex
	bundles map[HandlerKey]Bundle
	order   []HandlerKey
	frozen  bool
}

// NewStore creates an empty, writable Store.
func NewStore() *Store {
	return &Store{bundles: make(map[HandlerKey]Bundle)}
}

// Set stores or overwrites a single attribute for key.
func (s *Store) Set(key HandlerKey, attr string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return ErrFrozen
	}

	b, ok := s.bundles[key]
	if !ok {
		b = make(Bundle)
		s.bundles[key] = b
		s.order = append(s.order, key)
	}
	b[attr] = value
	return nil
}

// Get returns the raw value of an attribute.
func (s *Store) Get(key HandlerKey, attr string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.bundles[key][attr]
	return v, ok
}

// Has reports whether any attribute has been recorded for key.
func (s *Store) Has(key HandlerKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.bundles[key]
	return ok
}

// Keys returns every key in first-declaration order.
func (s *Store) Keys() []HandlerKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]HandlerKey, len(s.order))
	copy(out, s.order)
	return out
}

// Freeze ends the declaration phase.
func (s *Store) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

// Frozen reports whether Freeze has been called.
func (s *Store) Frozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen
}

// Lookup returns the attribute value as T, or def when the attribute is
// absent or holds a value of another type.
func Lookup[T any](s *Store, key HandlerKey, attr string, def T) T {
	v, ok := s.Get(key, attr)
	if !ok {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}
