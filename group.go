package route

import "strings"

// Controller is anything that can describe itself as a Group. Controllers
// are walked in the order they are passed to Register.
type Controller interface {
	Routes() Group
}

// Group is a collection of handlers under a shared base path with shared
// middleware and documentation tags.
type Group struct {
	// Name identifies the group in the metadata store. Defaults to Prefix.
	Name       string
	Prefix     string
	Tags       []string
	Middleware []Middleware
	Handlers   []Def
}

// Routes lets a Group literal act as its own Controller.
func (g Group) Routes() Group { return g }

func (g Group) key() string {
	if g.Name != "" {
		return g.Name
	}
	return normalizePath(g.Prefix)
}

// normalizePath ensures a leading slash and strips a trailing one, so that
// "stat", "/stat" and "/stat/" all join to the same base path. The empty
// string and "/" both normalize to "".
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimSuffix(p, "/")
}

// joinPath appends a handler path to a base path. The handler path keeps
// its trailing slash, so "/users" + "/" yields "/users/".
func joinPath(base, path string) string {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if base == "" {
		return path
	}
	return base + path
}
