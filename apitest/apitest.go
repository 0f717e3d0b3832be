// Package apitest provides typed test helpers for routers built with route.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Client wraps an httptest.Server for convenient API testing.
type Client struct {
	Server *httptest.Server
}

// NewClient creates a test client serving h, typically a *route.Router.
func NewClient(t testing.TB, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Client{Server: srv}
}

// Response holds a decoded API response. Text holds the raw body so that
// plain-text and problem responses can be asserted on too.
type Response[T any] struct {
	Status  int
	Headers http.Header
	Body    *T
	Text    string
}

// Get sends a typed GET request.
func Get[Resp any](t testing.TB, c *Client, path string) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodGet, path, nil)
}

// Post sends a typed POST request with a JSON body.
func Post[Req, Resp any](t testing.TB, c *Client, path string, body *Req) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodPost, path, body)
}

// Put sends a typed PUT request with a JSON body.
func Put[Req, Resp any](t testing.TB, c *Client, path string, body *Req) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodPut, path, body)
}

// Delete sends a typed DELETE request.
func Delete[Resp any](t testing.TB, c *Client, path string) *Response[Resp] {
	t.Helper()
	return do[Resp](t, c, http.MethodDelete, path, nil)
}

// FilePart is one file in a multipart upload.
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

// Upload sends a multipart POST with the given files and plain fields.
func Upload[Resp any](t testing.TB, c *Client, path string, files []FilePart, fields map[string]string) *Response[Resp] {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("apitest: write field %q: %v", k, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			t.Fatalf("apitest: create form file %q: %v", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			t.Fatalf("apitest: write form file %q: %v", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("apitest: close multipart writer: %v", err)
	}

	req := newRequest(t, c, http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return send[Resp](t, req)
}

func do[Resp any](t testing.TB, c *Client, method, path string, body any) *Response[Resp] {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("apitest: marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req := newRequest(t, c, method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send[Resp](t, req)
}

func newRequest(t testing.TB, c *Client, method, path string, body io.Reader) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, c.Server.URL+path, body)
	if err != nil {
		t.Fatalf("apitest: create request: %v", err)
	}
	return req
}

func send[Resp any](t testing.TB, req *http.Request) *Response[Resp] {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("apitest: execute request: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("apitest: close body: %v", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("apitest: read body: %v", err)
	}

	result := &Response[Resp]{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Text:    string(raw),
	}

	if len(bytes.TrimSpace(raw)) > 0 {
		var decoded Resp
		if json.Unmarshal(raw, &decoded) == nil {
			result.Body = &decoded
		}
	}

	return result
}
