package route

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/strfmt"
	"github.com/go-playground/validator/v10"
)

// Location is the part of the request a rule reads from.
type Location string

// Request locations. LocationAny searches body, query, params and headers
// in that order.
const (
	LocationAny     Location = "any"
	LocationBody    Location = "body"
	LocationQuery   Location = "query"
	LocationParams  Location = "params"
	LocationHeaders Location = "headers"
)

var anyOrder = []Location{LocationBody, LocationQuery, LocationParams, LocationHeaders}

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate = validator.New()

// Rule checks one aspect of a request and reports every failure it finds.
type Rule interface {
	Check(in *Input) []ValidationError
}

// RuleFunc adapts a function to a Rule.
type RuleFunc func(in *Input) []ValidationError

// Check calls f(in).
func (f RuleFunc) Check(in *Input) []ValidationError { return f(in) }

// Input is the view of a request that rules inspect. The JSON body is
// decoded once and shared by all rules.
type Input struct {
	req  *http.Request
	body map[string]any
}

// NewInput buffers and decodes the request body so that rules can read it
// while the handler still sees the original bytes.
func NewInput(r *http.Request) (*Input, error) {
	in := &Input{req: r}
	if r.Body == nil || r.Body == http.NoBody {
		return in, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "", "application/json":
		data, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, Errorf(http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", maxErr.Limit)
			}
			return nil, fmt.Errorf("%w: %w", ErrBindBody, err)
		}
		r.Body = io.NopCloser(bytes.NewReader(data))

		if len(bytes.TrimSpace(data)) == 0 {
			return in, nil
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			if mediaType == "" {
				return in, nil
			}
			return nil, Error(http.StatusBadRequest, "invalid JSON body: "+err.Error())
		}
		if m, ok := v.(map[string]any); ok {
			in.body = m
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, Error(http.StatusBadRequest, "invalid form body: "+err.Error())
		}
		in.body = make(map[string]any, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				in.body[k] = vs[0]
			}
		}
	}

	return in, nil
}

// Request returns the underlying request.
func (in *Input) Request() *http.Request { return in.req }

// Lookup finds field in loc and reports the location it was found in.
// Body fields may use dotted paths into nested objects.
func (in *Input) Lookup(loc Location, field string) (any, Location, bool) {
	if loc == LocationAny {
		for _, l := range anyOrder {
			if v, _, ok := in.Lookup(l, field); ok {
				return v, l, true
			}
		}
		return nil, LocationAny, false
	}

	switch loc {
	case LocationBody:
		v, ok := dig(in.body, field)
		return v, loc, ok
	case LocationQuery:
		q := in.req.URL.Query()
		if !q.Has(field) {
			return nil, loc, false
		}
		return q.Get(field), loc, true
	case LocationParams:
		v := chi.URLParam(in.req, field)
		return v, loc, v != ""
	case LocationHeaders:
		vs := in.req.Header.Values(field)
		if len(vs) == 0 {
			return nil, loc, false
		}
		return vs[0], loc, true
	}
	return nil, loc, false
}

func dig(m map[string]any, path string) (any, bool) {
	var cur any = m
	for part := range strings.SplitSeq(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

type check struct {
	message string
	ok      func(v any, present bool) bool
}

// Chain is a rule on one field in one location, built from chained checks.
// Every failing check contributes its own error.
type Chain struct {
	field  string
	loc    Location
	checks []check
	err    error
}

func newChain(loc Location, field string) *Chain {
	c := &Chain{field: field, loc: loc}
	if strings.TrimSpace(field) == "" {
		c.err = malformed("%s rule has no field", loc)
	}
	return c
}

// Body starts a rule on a JSON or form body field.
func Body(field string) *Chain { return newChain(LocationBody, field) }

// Query starts a rule on a query-string parameter.
func Query(field string) *Chain { return newChain(LocationQuery, field) }

// Param starts a rule on a path parameter.
func Param(field string) *Chain { return newChain(LocationParams, field) }

// Header starts a rule on a request header.
func Header(field string) *Chain { return newChain(LocationHeaders, field) }

// Check starts a rule on a field found in any location.
func Check(field string) *Chain { return newChain(LocationAny, field) }

// NotEmpty fails when the field is missing, null, an empty string, or an
// empty array or object.
func (c *Chain) NotEmpty() *Chain {
	c.checks = append(c.checks, check{
		message: "must not be empty",
		ok: func(v any, present bool) bool {
			return present && !isEmpty(v)
		},
	})
	return c
}

// Tag applies a go-playground/validator tag such as "email" or "min=3" to
// the field's value. A missing field passes; combine with NotEmpty to
// require it. Unknown tags make the rule malformed.
func (c *Chain) Tag(tag string) *Chain {
	if err := probeTag(tag); err != nil {
		c.setErr(err)
		return c
	}
	c.checks = append(c.checks, check{
		message: fmt.Sprintf("must satisfy %q", tag),
		ok: func(v any, present bool) bool {
			if !present {
				return true
			}
			return validate.Var(v, tag) == nil
		},
	})
	return c
}

// Format checks the field against a named strfmt format such as "uuid",
// "email" or "date-time". A missing field passes.
func (c *Chain) Format(name string) *Chain {
	if !strfmt.Default.ContainsName(name) {
		c.setErr(malformed("unknown format %q", name))
		return c
	}
	c.checks = append(c.checks, check{
		message: "must be a valid " + name,
		ok: func(v any, present bool) bool {
			if !present {
				return true
			}
			s, ok := v.(string)
			return ok && strfmt.Default.Validates(name, s)
		},
	})
	return c
}

// WithMessage replaces the message of the preceding check.
func (c *Chain) WithMessage(msg string) *Chain {
	if len(c.checks) == 0 {
		c.setErr(malformed("%s %q: message without a check", c.loc, c.field))
		return c
	}
	c.checks[len(c.checks)-1].message = msg
	return c
}

// Err reports a construction error such as an unknown tag.
func (c *Chain) Err() error { return c.err }

func (c *Chain) setErr(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Check runs every check against the field.
func (c *Chain) Check(in *Input) []ValidationError {
	v, loc, present := in.Lookup(c.loc, c.field)

	var errs []ValidationError
	for _, ch := range c.checks {
		if ch.ok(v, present) {
			continue
		}
		errs = append(errs, ValidationError{
			Field:    c.field,
			Location: loc,
			Message:  ch.message,
			Value:    v,
		})
	}
	return errs
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

// probeTag rejects tags the validator does not know. The validator panics on
// an undefined tag, so the probe recovers.
func probeTag(tag string) (err error) {
	if strings.TrimSpace(tag) == "" {
		return malformed("empty validator tag")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = malformed("validator tag %q: %v", tag, rec)
		}
	}()
	_ = validate.Var("", tag)
	return nil
}

// Validation is the single step synthesized from a handler's rules. It runs
// before any custom middleware.
type Validation struct {
	Rules []Rule
}

// Run evaluates every rule and returns all failures in rule order.
func (v *Validation) Run(r *http.Request) ([]ValidationError, error) {
	in, err := NewInput(r)
	if err != nil {
		return nil, err
	}

	var errs []ValidationError
	for _, rule := range v.Rules {
		errs = append(errs, rule.Check(in)...)
	}
	return errs, nil
}

// Middleware turns the step into a Middleware that answers 400 with the
// aggregated failures, or passes the request on untouched.
func (v *Validation) Middleware(onError ErrorHandler) Middleware {
	writeErr := func(w http.ResponseWriter, r *http.Request, err error) {
		if onError != nil {
			onError(w, r, err)
			return
		}
		writeErrorResponse(w, err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			errs, err := v.Run(r)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if len(errs) > 0 {
				writeErr(w, r, &ProblemDetail{
					Type:     "about:blank",
					Title:    "Validation Failed",
					Status:   http.StatusBadRequest,
					Detail:   fmt.Sprintf("%d validation error(s)", len(errs)),
					Instance: r.URL.Path,
					Errors:   errs,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Validate declares the handler's validation rules. Rules run together and
// every failure is reported. A second Validate on the same handler replaces
// the first.
func Validate(rules ...Rule) Declaration {
	return func(s *Store, key HandlerKey) error {
		if len(rules) == 0 {
			return malformed("%s: validate without rules", key)
		}
		for i, rule := range rules {
			if rule == nil {
				return malformed("%s: rule %d is nil", key, i)
			}
			if e, ok := rule.(interface{ Err() error }); ok && e.Err() != nil {
				return fmt.Errorf("%s: rule %d: %w", key, i, e.Err())
			}
		}
		return s.Set(key, AttrValidations, &Validation{Rules: slices.Clone(rules)})
	}
}

// Require is shorthand for NotEmpty rules on fields found in any location.
func Require(fields ...string) Declaration {
	rules := make([]Rule, len(fields))
	for i, f := range fields {
		rules[i] = Check(f).NotEmpty()
	}
	return Validate(rules...)
}
