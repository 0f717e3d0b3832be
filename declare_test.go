package route_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/route"
)

var testKey = route.HandlerKey{Group: "users", Handler: "h"}

func apply(t *testing.T, decls ...route.Declaration) *route.Store {
	t.Helper()
	s := route.NewStore()
	for _, d := range decls {
		require.NoError(t, d(s, testKey))
	}
	return s
}

func TestMethodDeclarations(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		decl route.Declaration
		verb string
		path string
	}{
		"get":    {decl: route.Get("/"), verb: http.MethodGet, path: "/"},
		"post":   {decl: route.Post("/create"), verb: http.MethodPost, path: "/create"},
		"put":    {decl: route.Put("/update"), verb: http.MethodPut, path: "/update"},
		"patch":  {decl: route.Patch("/p"), verb: http.MethodPatch, path: "/p"},
		"delete": {decl: route.Delete("/d"), verb: http.MethodDelete, path: "/d"},
		"lower-case method": {
			decl: route.Method("options", "/o"),
			verb: http.MethodOptions,
			path: "/o",
		},
		"empty path": {decl: route.Get(""), verb: http.MethodGet, path: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := apply(t, tc.decl)
			assert.Equal(t, tc.verb, route.Lookup(s, testKey, route.AttrVerb, ""))
			path, ok := s.Get(testKey, route.AttrPath)
			assert.True(t, ok)
			assert.Equal(t, tc.path, path)
		})
	}
}

func TestMethod_RecordsMiddleware(t *testing.T) {
	t.Parallel()

	mw := func(next http.Handler) http.Handler { return next }
	s := apply(t, route.Post("/file", mw, mw))

	got := route.Lookup[[]route.Middleware](s, testKey, route.AttrMiddlewares, nil)
	assert.Len(t, got, 2)
}

func TestMalformedDeclarations(t *testing.T) {
	t.Parallel()

	tests := map[string]route.Declaration{
		"unknown verb":           route.Method("FETCH", "/x"),
		"path with space":        route.Get("/a b"),
		"nil middleware":         route.Get("/x", nil),
		"empty summary":          route.Summary("  "),
		"doc path without slash": route.DocPath("users"),
		"doc path unbalanced":    route.DocPath("/users/{id"),
		"no path params":         route.PathParams(),
		"unnamed query param":    route.QueryParams(route.Parameter{Description: "x"}),
		"body without props":     route.JSONBody(),
		"body prop without name": route.JSONBody(route.Prop{Type: "string"}),
		"body prop bad type":     route.JSONBody(route.Prop{Name: "a", Type: "text"}),
		"body prop twice":        route.JSONBody(route.Prop{Name: "a", Type: "string"}, route.Prop{Name: "a", Type: "string"}),
		"body of scalar":         route.BodyOf[string](),
		"status too low":         route.Response(99, "x", nil),
		"status too high":        route.Response(600, "x", nil),
		"file without field":     route.File("", true, "x"),
		"empty tag":              route.Tags("ok", ""),
		"validate without rules": route.Validate(),
		"rule without field":     route.Validate(route.Body("").NotEmpty()),
		"unknown validator tag":  route.Validate(route.Body("a").Tag("no_such_tag")),
		"unknown format":         route.Validate(route.Query("a").Format("no-such-format")),
		"message before a check": route.Validate(route.Query("a").WithMessage("x")),
		"require with no fields": route.Require(),
		"nil rule":               route.Validate(nil),
	}

	for name, decl := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := route.NewStore()
			err := decl(s, testKey)
			require.ErrorIs(t, err, route.ErrMalformedDeclaration)
			assert.False(t, s.Has(testKey), "malformed declaration must write nothing")
		})
	}
}

func TestDeclaration_FrozenStore(t *testing.T) {
	t.Parallel()

	s := route.NewStore()
	s.Freeze()

	err := route.Summary("late")(s, testKey)
	require.ErrorIs(t, err, route.ErrFrozen)
}

func TestPathParams_ForcedInPathAndRequired(t *testing.T) {
	t.Parallel()

	s := apply(t, route.PathParams(route.Parameter{Name: "id", In: "query"}))

	params := route.Lookup[[]route.Parameter](s, testKey, route.AttrParams, nil)
	require.Len(t, params, 1)
	assert.Equal(t, "path", params[0].In)
	assert.True(t, params[0].Required)
	assert.Equal(t, "string", params[0].Schema.Type)
}

func TestQueryParams_ForcedInQuery(t *testing.T) {
	t.Parallel()

	s := apply(t, route.QueryParams(
		route.Parameter{Name: "page", In: "path", Required: true, Schema: route.JSONSchema{Type: "integer"}},
		route.StringParam("q", "search", false),
	))

	params := route.Lookup[[]route.Parameter](s, testKey, route.AttrQuery, nil)
	require.Len(t, params, 2)
	assert.Equal(t, "query", params[0].In)
	assert.Equal(t, "integer", params[0].Schema.Type)
	assert.True(t, params[0].Required)
	assert.Equal(t, "query", params[1].In)
	assert.False(t, params[1].Required)
}

func TestJSONBody_RequiredList(t *testing.T) {
	t.Parallel()

	s := apply(t, route.JSONBody(
		route.Prop{Name: "userId", Type: "string", Required: true},
		route.Prop{Name: "email", Type: "string", Format: "email"},
		route.Prop{Name: "username", Type: "string", Required: true},
	))

	body := route.Lookup[*route.RequestBody](s, testKey, route.AttrBody, nil)
	require.NotNil(t, body)
	assert.True(t, body.Required)

	schema := body.Content["application/json"].Schema
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"userId", "username"}, schema.Required)
	assert.Equal(t, "email", schema.Properties["email"].Format)
	assert.Len(t, schema.Properties, 3)
}

func TestBodyOf(t *testing.T) {
	t.Parallel()

	type credentials struct {
		Username string `json:"username" required:"true"`
		Password string `json:"password"`
	}

	s := apply(t, route.BodyOf[credentials]())

	body := route.Lookup[*route.RequestBody](s, testKey, route.AttrBody, nil)
	require.NotNil(t, body)
	schema := body.Content["application/json"].Schema
	assert.Equal(t, []string{"username"}, schema.Required)
	assert.Contains(t, schema.Properties, "password")
}

func TestResponse_MergesByStatus(t *testing.T) {
	t.Parallel()

	s := apply(t,
		route.Response(http.StatusOK, "first", nil),
		route.Response(http.StatusInternalServerError, "", nil),
		route.Response(http.StatusOK, "replaced", &route.JSONSchema{Type: "string"}),
	)

	resp := route.Lookup[route.OperationResp](s, testKey, route.AttrResponses, nil)
	require.Len(t, resp, 2)
	assert.Equal(t, "replaced", resp["200"].Description)
	assert.Equal(t, "string", resp["200"].Content["application/json"].Schema.Type)
	assert.Equal(t, "Internal Server Error", resp["500"].Description)
	assert.Nil(t, resp["500"].Content)
}

func TestResponse_DoesNotAliasEarlierMap(t *testing.T) {
	t.Parallel()

	s := apply(t, route.Response(http.StatusOK, "ok", nil))
	before := route.Lookup[route.OperationResp](s, testKey, route.AttrResponses, nil)

	require.NoError(t, route.Response(http.StatusNotFound, "missing", nil)(s, testKey))

	assert.Len(t, before, 1)
	assert.Len(t, route.Lookup[route.OperationResp](s, testKey, route.AttrResponses, nil), 2)
}

func TestResponseOf(t *testing.T) {
	t.Parallel()

	type item struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	s := apply(t, route.ResponseOf[[]item](http.StatusOK, "list"))

	resp := route.Lookup[route.OperationResp](s, testKey, route.AttrResponses, nil)
	schema := resp["200"].Content["application/json"].Schema
	require.NotNil(t, schema)
	assert.Equal(t, "array", schema.Type)
	assert.Equal(t, "integer", schema.Items.Properties["id"].Type)
}

func TestFile_Accumulates(t *testing.T) {
	t.Parallel()

	s := apply(t,
		route.File("file", true, "the file"),
		route.File("thumb", false, ""),
	)

	files := route.Lookup[[]route.FileParam](s, testKey, route.AttrFiles, nil)
	assert.Equal(t, []route.FileParam{
		{Field: "file", Required: true, Description: "the file"},
		{Field: "thumb", Required: false, Description: "File upload"},
	}, files)
}

func TestDocDeclarations(t *testing.T) {
	t.Parallel()

	s := apply(t,
		route.Summary("List users"),
		route.Description("Returns one page of users."),
		route.DocPath("/users/get/{id}"),
		route.Tags("admin"),
		route.Tags("beta"),
		route.Deprecated(),
	)

	assert.Equal(t, "List users", route.Lookup(s, testKey, route.AttrSummary, ""))
	assert.Equal(t, "Returns one page of users.", route.Lookup(s, testKey, route.AttrDescription, ""))
	assert.Equal(t, "/users/get/{id}", route.Lookup(s, testKey, route.AttrDocPath, ""))
	assert.Equal(t, []string{"admin", "beta"}, route.Lookup[[]string](s, testKey, route.AttrTags, nil))
	assert.True(t, route.Lookup(s, testKey, route.AttrDeprecated, false))
}

func TestHandlerKey_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "users.list", route.HandlerKey{Group: "users", Handler: "list"}.String())
	assert.Equal(t, "users", route.GroupKey("users").String())
}
