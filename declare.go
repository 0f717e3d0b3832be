package route

import (
	"fmt"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strings"
)

// Declaration records one annotation for the handler identified by key.
// Declarations check their own input before writing; a malformed one
// returns an error wrapping ErrMalformedDeclaration and writes nothing.
type Declaration func(s *Store, key HandlerKey) error

var verbs = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// Method declares the verb and relative path of a handler together with
// handler-specific middleware. The middleware runs after the validation step
// and before the handler, in the order given. An empty path binds the
// handler at its group's base path.
func Method(verb, path string, mw ...Middleware) Declaration {
	return func(s *Store, key HandlerKey) error {
		upper := strings.ToUpper(verb)
		if !verbs[upper] {
			return malformed("%s: unsupported verb %q", key, verb)
		}
		if strings.ContainsAny(path, " \t\n?#") {
			return malformed("%s: invalid path %q", key, path)
		}
		for i, m := range mw {
			if m == nil {
				return malformed("%s: middleware %d is nil", key, i)
			}
		}

		for attr, v := range map[string]any{
			AttrVerb:        upper,
			AttrPath:        path,
			AttrMiddlewares: slices.Clone(mw),
		} {
			if err := s.Set(key, attr, v); err != nil {
				return err
			}
		}
		return nil
	}
}

// Get declares a GET route.
func Get(path string, mw ...Middleware) Declaration {
	return Method(http.MethodGet, path, mw...)
}

// Post declares a POST route.
func Post(path string, mw ...Middleware) Declaration {
	return Method(http.MethodPost, path, mw...)
}

// Put declares a PUT route.
func Put(path string, mw ...Middleware) Declaration {
	return Method(http.MethodPut, path, mw...)
}

// Patch declares a PATCH route.
func Patch(path string, mw ...Middleware) Declaration {
	return Method(http.MethodPatch, path, mw...)
}

// Delete declares a DELETE route.
func Delete(path string, mw ...Middleware) Declaration {
	return Method(http.MethodDelete, path, mw...)
}

// Summary sets the operation summary. It also becomes the description of
// the operation's external docs link.
func Summary(s string) Declaration {
	return func(st *Store, key HandlerKey) error {
		if strings.TrimSpace(s) == "" {
			return malformed("%s: empty summary", key)
		}
		return st.Set(key, AttrSummary, s)
	}
}

// Description sets the long-form operation description.
func Description(d string) Declaration {
	return func(s *Store, key HandlerKey) error {
		return s.Set(key, AttrDescription, d)
	}
}

// DocPath sets the path under which the operation is documented. It is
// independent of the route path and uses OpenAPI {name} templates.
func DocPath(p string) Declaration {
	return func(s *Store, key HandlerKey) error {
		if !strings.HasPrefix(p, "/") {
			return malformed("%s: doc path %q must start with /", key, p)
		}
		if strings.Count(p, "{") != strings.Count(p, "}") {
			return malformed("%s: doc path %q has unbalanced braces", key, p)
		}
		return s.Set(key, AttrDocPath, p)
	}
}

// PathParams documents path parameters. Path parameters are always required.
func PathParams(params ...Parameter) Declaration {
	return func(s *Store, key HandlerKey) error {
		ps, err := parameters(key, "path", params)
		if err != nil {
			return err
		}
		for i := range ps {
			ps[i].Required = true
		}
		return s.Set(key, AttrParams, ps)
	}
}

// QueryParams documents query-string parameters.
func QueryParams(params ...Parameter) Declaration {
	return func(s *Store, key HandlerKey) error {
		ps, err := parameters(key, "query", params)
		if err != nil {
			return err
		}
		return s.Set(key, AttrQuery, ps)
	}
}

func parameters(key HandlerKey, in string, params []Parameter) ([]Parameter, error) {
	if len(params) == 0 {
		return nil, malformed("%s: no %s parameters", key, in)
	}
	out := make([]Parameter, len(params))
	for i, p := range params {
		if p.Name == "" {
			return nil, malformed("%s: %s parameter %d has no name", key, in, i)
		}
		p.In = in
		if p.Schema.Type == "" && p.Schema.Ref == "" {
			p.Schema.Type = "string"
		}
		out[i] = p
	}
	return out, nil
}

// StringParam builds a string-typed parameter.
func StringParam(name, description string, required bool) Parameter {
	return Parameter{
		Name:        name,
		Description: description,
		Required:    required,
		Schema:      JSONSchema{Type: "string"},
	}
}

// Prop is one property of a JSON request body.
type Prop struct {
	Name        string
	Type        string
	Format      string
	Description string
	Required    bool
}

// JSONBody documents an application/json request body built from props.
// Required props are listed in the schema's required array.
func JSONBody(props ...Prop) Declaration {
	return func(s *Store, key HandlerKey) error {
		if len(props) == 0 {
			return malformed("%s: body has no properties", key)
		}

		schema := JSONSchema{
			Type:       "object",
			Properties: make(map[string]JSONSchema, len(props)),
		}
		for i, p := range props {
			if p.Name == "" {
				return malformed("%s: body property %d has no name", key, i)
			}
			if !schemaTypes[p.Type] {
				return malformed("%s: body property %q has unknown type %q", key, p.Name, p.Type)
			}
			if _, dup := schema.Properties[p.Name]; dup {
				return malformed("%s: body property %q declared twice", key, p.Name)
			}
			schema.Properties[p.Name] = JSONSchema{
				Type:        p.Type,
				Format:      p.Format,
				Description: p.Description,
			}
			if p.Required {
				schema.Required = append(schema.Required, p.Name)
			}
		}

		return s.Set(key, AttrBody, &RequestBody{
			Required: len(schema.Required) > 0,
			Content: map[string]MediaObj{
				"application/json": {Schema: &schema},
			},
		})
	}
}

// BodyOf documents an application/json request body derived from T.
func BodyOf[T any]() Declaration {
	return func(s *Store, key HandlerKey) error {
		t := reflect.TypeFor[T]()
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct && t.Kind() != reflect.Map {
			return malformed("%s: body type %s is not an object", key, t)
		}
		return s.Set(key, AttrBody, &RequestBody{
			Required: true,
			Content: map[string]MediaObj{
				"application/json": {Schema: SchemaOf[T]()},
			},
		})
	}
}

// Response documents the response for one status code. Responses for
// different codes accumulate; a second declaration for the same code
// replaces the first. A nil schema documents a response without content.
func Response(status int, description string, schema *JSONSchema) Declaration {
	return func(s *Store, key HandlerKey) error {
		if status < 100 || status > 599 {
			return malformed("%s: invalid response status %d", key, status)
		}

		resp := ResponseObj{Description: statusDescription(status, description)}
		if schema != nil {
			sc := *schema
			resp.Content = map[string]MediaObj{
				"application/json": {Schema: &sc},
			}
		}

		merged := maps.Clone(Lookup[OperationResp](s, key, AttrResponses, nil))
		if merged == nil {
			merged = make(OperationResp)
		}
		merged[statusToString(status)] = resp
		return s.Set(key, AttrResponses, merged)
	}
}

// ResponseOf documents a response whose JSON schema is derived from T.
func ResponseOf[T any](status int, description string) Declaration {
	return Response(status, description, SchemaOf[T]())
}

// File documents a multipart upload field. Repeated declarations
// accumulate in declaration order.
func File(field string, required bool, description string) Declaration {
	return func(s *Store, key HandlerKey) error {
		if strings.TrimSpace(field) == "" {
			return malformed("%s: file field has no name", key)
		}
		if description == "" {
			description = "File upload"
		}
		files := slices.Clone(Lookup[[]FileParam](s, key, AttrFiles, nil))
		files = append(files, FileParam{
			Field:       field,
			Required:    required,
			Description: description,
		})
		return s.Set(key, AttrFiles, files)
	}
}

// Tags adds documentation tags after the group's base path tag.
func Tags(tags ...string) Declaration {
	return func(s *Store, key HandlerKey) error {
		for i, t := range tags {
			if t == "" {
				return malformed("%s: tag %d is empty", key, i)
			}
		}
		existing := slices.Clone(Lookup[[]string](s, key, AttrTags, nil))
		return s.Set(key, AttrTags, append(existing, tags...))
	}
}

// Deprecated marks the operation as deprecated.
func Deprecated() Declaration {
	return func(s *Store, key HandlerKey) error {
		return s.Set(key, AttrDeprecated, true)
	}
}

// String formats the key as "group.handler".
func (k HandlerKey) String() string {
	if k.Handler == "" {
		return k.Group
	}
	return fmt.Sprintf("%s.%s", k.Group, k.Handler)
}
