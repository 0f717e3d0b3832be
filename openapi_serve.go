package route

import (
	"encoding/json"
	"io"
	"net/http"

	"gopkg.in/yaml.v3"
)

// ServeSpec serves the generated document as JSON at pattern. The document
// is rebuilt from the registered endpoints on each request.
func (r *Router) ServeSpec(pattern string) {
	r.mux.Get(pattern, func(w http.ResponseWriter, _ *http.Request) {
		spec := r.Spec()
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		json.NewEncoder(w).Encode(spec)
	})
}

// ServeSpecYAML is ServeSpec in YAML.
func (r *Router) ServeSpecYAML(pattern string) {
	r.mux.Get(pattern, func(w http.ResponseWriter, _ *http.Request) {
		spec := r.Spec()
		w.Header().Set("Content-Type", "application/yaml")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		yaml.NewEncoder(w).Encode(spec)
	})
}

// WriteSpec writes the document as indented JSON, as `server spec` prints it.
func (r *Router) WriteSpec(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Spec())
}

// WriteSpecYAML writes the document as YAML with two-space indentation.
func (r *Router) WriteSpecYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.Spec()); err != nil {
		return err
	}
	return enc.Close()
}
