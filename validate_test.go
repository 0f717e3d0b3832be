package route_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/route"
)

func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func runRules(t *testing.T, req *http.Request, rules ...route.Rule) []route.ValidationError {
	t.Helper()
	v := &route.Validation{Rules: rules}
	errs, err := v.Run(req)
	require.NoError(t, err)
	return errs
}

func TestChain_NotEmpty(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		body   string
		failed bool
	}{
		"present string":  {body: `{"a":"x"}`},
		"present number":  {body: `{"a":0}`},
		"present false":   {body: `{"a":false}`},
		"missing":         {body: `{}`, failed: true},
		"null":            {body: `{"a":null}`, failed: true},
		"empty string":    {body: `{"a":""}`, failed: true},
		"empty array":     {body: `{"a":[]}`, failed: true},
		"empty object":    {body: `{"a":{}}`, failed: true},
		"no body at all":  {failed: true},
		"non-object body": {body: `["a"]`, failed: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			errs := runRules(t, jsonRequest(http.MethodPost, "/", tc.body), route.Body("a").NotEmpty())
			if tc.failed {
				require.Len(t, errs, 1)
				assert.Equal(t, "a", errs[0].Field)
				assert.Equal(t, route.LocationBody, errs[0].Location)
				return
			}
			assert.Empty(t, errs)
		})
	}
}

func TestValidation_AggregatesInRuleOrder(t *testing.T) {
	t.Parallel()

	req := jsonRequest(http.MethodPost, "/?page=1", `{"username":"a"}`)
	errs := runRules(t, req,
		route.Body("username").NotEmpty(),
		route.Body("password").NotEmpty(),
		route.Query("limit").NotEmpty(),
		route.Body("code").NotEmpty().WithMessage("code required"),
	)

	require.Len(t, errs, 3)
	assert.Equal(t, "password", errs[0].Field)
	assert.Equal(t, "limit", errs[1].Field)
	assert.Equal(t, route.LocationQuery, errs[1].Location)
	assert.Equal(t, "code", errs[2].Field)
	assert.Equal(t, "code required", errs[2].Message)
}

func TestChain_Query(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		query  string
		failed bool
	}{
		"present":     {query: "?page=1"},
		"missing":     {query: "", failed: true},
		"empty value": {query: "?page=", failed: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			errs := runRules(t, httptest.NewRequest(http.MethodGet, "/"+tc.query, nil), route.Query("page").NotEmpty())
			assert.Equal(t, tc.failed, len(errs) > 0)
		})
	}
}

func TestChain_Header(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Api-Key", "secret")

	assert.Empty(t, runRules(t, req, route.Header("x-api-key").NotEmpty()))
	assert.Len(t, runRules(t, req, route.Header("X-Other").NotEmpty()), 1)
}

func TestChain_Param(t *testing.T) {
	t.Parallel()

	var got []route.ValidationError
	mux := chi.NewRouter()
	mux.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		v := &route.Validation{Rules: []route.Rule{
			route.Param("id").NotEmpty().Tag("numeric"),
		}}
		errs, err := v.Run(r)
		require.NoError(t, err)
		got = errs
		w.WriteHeader(http.StatusOK)
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/42", nil))
	assert.Empty(t, got)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/abc", nil))
	require.Len(t, got, 1)
	assert.Equal(t, route.LocationParams, got[0].Location)
	assert.Equal(t, "abc", got[0].Value)
}

func TestCheck_SearchesEveryLocation(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		req      func() *http.Request
		location route.Location
	}{
		"body": {
			req:      func() *http.Request { return jsonRequest(http.MethodPost, "/", `{"userId":"7"}`) },
			location: route.LocationBody,
		},
		"query": {
			req:      func() *http.Request { return httptest.NewRequest(http.MethodGet, "/?userId=7", nil) },
			location: route.LocationQuery,
		},
		"header": {
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "/", nil)
				r.Header.Set("userId", "7")
				return r
			},
			location: route.LocationHeaders,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in, err := route.NewInput(tc.req())
			require.NoError(t, err)

			v, loc, ok := in.Lookup(route.LocationAny, "userId")
			assert.True(t, ok)
			assert.Equal(t, "7", v)
			assert.Equal(t, tc.location, loc)
		})
	}
}

func TestCheck_MissingEverywhere(t *testing.T) {
	t.Parallel()

	errs := runRules(t, httptest.NewRequest(http.MethodGet, "/", nil), route.Check("userId").NotEmpty())
	require.Len(t, errs, 1)
	assert.Equal(t, route.LocationAny, errs[0].Location)
}

func TestChain_Tag(t *testing.T) {
	t.Parallel()

	rule := route.Body("email").Tag("email")
	assert.NoError(t, rule.Err())

	assert.Empty(t, runRules(t, jsonRequest(http.MethodPost, "/", `{"email":"a@b.co"}`), rule))
	assert.Empty(t, runRules(t, jsonRequest(http.MethodPost, "/", `{}`), rule), "missing field passes")

	errs := runRules(t, jsonRequest(http.MethodPost, "/", `{"email":"nope"}`), rule)
	require.Len(t, errs, 1)
	assert.Equal(t, `must satisfy "email"`, errs[0].Message)
}

func TestChain_TagOnNumbers(t *testing.T) {
	t.Parallel()

	rule := route.Body("age").Tag("gte=18")

	assert.Empty(t, runRules(t, jsonRequest(http.MethodPost, "/", `{"age":30}`), rule))
	assert.Len(t, runRules(t, jsonRequest(http.MethodPost, "/", `{"age":3}`), rule), 1)
}

func TestChain_Format(t *testing.T) {
	t.Parallel()

	rule := route.Query("id").Format("uuid")
	require.NoError(t, rule.Err())

	ok := httptest.NewRequest(http.MethodGet, "/?id=8c5c9b9e-6b6f-4c53-9d0b-1d1a4b1e7f10", nil)
	assert.Empty(t, runRules(t, ok, rule))

	bad := httptest.NewRequest(http.MethodGet, "/?id=42", nil)
	errs := runRules(t, bad, rule)
	require.Len(t, errs, 1)
	assert.Equal(t, "must be a valid uuid", errs[0].Message)
}

func TestChain_MultipleFailuresOnOneField(t *testing.T) {
	t.Parallel()

	rule := route.Body("email").NotEmpty().Tag("email").Tag("min=50")
	errs := runRules(t, jsonRequest(http.MethodPost, "/", `{"email":"x"}`), rule)
	assert.Len(t, errs, 2)
}

func TestChain_DottedBodyPath(t *testing.T) {
	t.Parallel()

	rule := route.Body("user.name").NotEmpty()

	assert.Empty(t, runRules(t, jsonRequest(http.MethodPost, "/", `{"user":{"name":"a"}}`), rule))
	assert.Len(t, runRules(t, jsonRequest(http.MethodPost, "/", `{"user":"a"}`), rule), 1)
}

func TestNewInput_FormBody(t *testing.T) {
	t.Parallel()

	form := url.Values{"username": {"alice"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	assert.Empty(t, runRules(t, req, route.Body("username").NotEmpty()))
	assert.Equal(t, "alice", req.PostFormValue("username"))
}

func TestNewInput_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := route.NewInput(jsonRequest(http.MethodPost, "/", `{"a":`))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, route.ErrorStatus(err))
}

func TestRuleFunc(t *testing.T) {
	t.Parallel()

	rule := route.RuleFunc(func(in *route.Input) []route.ValidationError {
		if in.Request().Header.Get("X-Tenant") == "" {
			return []route.ValidationError{{Field: "X-Tenant", Location: route.LocationHeaders, Message: "tenant required"}}
		}
		return nil
	})

	errs := runRules(t, httptest.NewRequest(http.MethodGet, "/", nil), rule)
	require.Len(t, errs, 1)
	assert.Equal(t, "tenant required", errs[0].Message)
}

func TestValidationMiddleware(t *testing.T) {
	t.Parallel()

	v := &route.Validation{Rules: []route.Rule{
		route.Body("username").NotEmpty(),
		route.Body("password").NotEmpty(),
	}}

	var seen string
	h := v.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("passes and keeps the body readable", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{"username":"a","password":"b"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"username":"a","password":"b"}`, seen)
	})

	t.Run("rejects with every failure", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, jsonRequest(http.MethodPost, "/login", `{}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

		var pd route.ProblemDetail
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&pd))
		assert.Equal(t, "Validation Failed", pd.Title)
		assert.Equal(t, "2 validation error(s)", pd.Detail)
		assert.Equal(t, "/login", pd.Instance)
		require.Len(t, pd.Errors, 2)
		assert.Equal(t, "username", pd.Errors[0].Field)
		assert.Equal(t, "password", pd.Errors[1].Field)
	})
}

func TestValidationMiddleware_CustomErrorHandler(t *testing.T) {
	t.Parallel()

	v := &route.Validation{Rules: []route.Rule{route.Query("q").NotEmpty()}}
	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, err.Error())
	}

	rec := httptest.NewRecorder()
	v.Middleware(onError)(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "1 validation error(s)", rec.Body.String())
}

func TestValidationMiddleware_BodyTooLarge(t *testing.T) {
	t.Parallel()

	v := &route.Validation{Rules: []route.Rule{route.Body("a").NotEmpty()}}
	h := route.BodyLimit(8)(v.Middleware(nil)(http.NotFoundHandler()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonRequest(http.MethodPost, "/", `{"a":"0123456789"}`))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRequire(t *testing.T) {
	t.Parallel()

	s := route.NewStore()
	require.NoError(t, route.Require("userId", "token")(s, testKey))

	v := route.Lookup[*route.Validation](s, testKey, route.AttrValidations, nil)
	require.NotNil(t, v)
	assert.Len(t, v.Rules, 2)

	errs, err := v.Run(jsonRequest(http.MethodPost, "/?token=t", `{}`))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "userId", errs[0].Field)
}
