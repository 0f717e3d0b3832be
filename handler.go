package route

import "net/http"

// Def is one named handler together with the declarations that describe it.
// The name must be unique within its group; it is the handler half of the
// HandlerKey that every declaration writes under.
type Def struct {
	Name         string
	Handler      http.HandlerFunc
	Declarations []Declaration
}

// Handle pairs a handler with its declarations.
func Handle(name string, h http.HandlerFunc, decls ...Declaration) Def {
	return Def{
		Name:         name,
		Handler:      h,
		Declarations: decls,
	}
}

// ErrorHandler is a custom error response writer.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
