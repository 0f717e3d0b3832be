package route

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPIVersion is the version string written into every generated document.
const OpenAPIVersion = "3.0.0"

// OpenAPISpec is the top-level OpenAPI 3.0 document.
type OpenAPISpec struct {
	OpenAPI string              `json:"openapi" yaml:"openapi"`
	Info    OpenAPIInfo         `json:"info" yaml:"info"`
	Paths   map[string]PathItem `json:"paths" yaml:"paths"`
}

// OpenAPIInfo holds API metadata.
type OpenAPIInfo struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem maps lower-case HTTP methods to operations.
type PathItem map[string]Operation

// Operation describes a single API operation on a path.
type Operation struct {
	Tags         []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary      string        `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	ExternalDocs *ExternalDocs `json:"externalDocs,omitempty" yaml:"externalDocs,omitempty"`
	Parameters   []Parameter   `json:"parameters" yaml:"parameters"`
	RequestBody  *RequestBody  `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses    OperationResp `json:"responses" yaml:"responses"`
	Deprecated   bool          `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// ExternalDocs links an operation to further documentation.
type ExternalDocs struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string `json:"url" yaml:"url"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string     `json:"name" yaml:"name"`
	In          string     `json:"in" yaml:"in"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool       `json:"required,omitempty" yaml:"required,omitempty"`
	Schema      JSONSchema `json:"schema" yaml:"schema"`
}

// RequestBody describes the request body.
type RequestBody struct {
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool                `json:"required" yaml:"required"`
	Content     map[string]MediaObj `json:"content" yaml:"content"`
}

// MediaObj is a media type object with an optional schema.
type MediaObj struct {
	Schema *JSONSchema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// OperationResp maps HTTP status codes to response objects.
type OperationResp map[string]ResponseObj

// ResponseObj describes a single response.
type ResponseObj struct {
	Description string              `json:"description" yaml:"description"`
	Content     map[string]MediaObj `json:"content,omitempty" yaml:"content,omitempty"`
}

// Spec generates the OpenAPI document from every documented endpoint.
// Endpoints sharing a doc path merge into one path item; a later endpoint
// with the same doc path and verb replaces the earlier operation.
func (r *Router) Spec() OpenAPISpec {
	r.mu.Lock()
	defer r.mu.Unlock()

	spec := OpenAPISpec{
		OpenAPI: OpenAPIVersion,
		Info: OpenAPIInfo{
			Title:       r.title,
			Version:     r.version,
			Description: r.description,
		},
		Paths: make(map[string]PathItem),
	}

	for i := range r.endpoints {
		e := &r.endpoints[i]
		if !e.Documented() {
			continue
		}

		method := strings.ToLower(e.Method)
		if spec.Paths[e.DocPath] == nil {
			spec.Paths[e.DocPath] = make(PathItem)
		}
		spec.Paths[e.DocPath][method] = e.Operation()
	}

	return spec
}

// Operation renders the endpoint's documentation attributes.
func (e *Endpoint) Operation() Operation {
	op := Operation{
		Summary:     e.Summary,
		Description: e.Description,
		ExternalDocs: &ExternalDocs{
			Description: e.Summary,
			URL:         e.DocPath,
		},
		Parameters:  slices.Clone(e.Parameters),
		RequestBody: e.RequestBody,
		Responses:   make(OperationResp, len(e.Responses)),
		Deprecated:  e.Deprecated,
	}

	if e.BasePath != "" {
		op.Tags = append(op.Tags, e.BasePath)
	}
	op.Tags = append(op.Tags, e.Tags...)

	if op.Parameters == nil {
		op.Parameters = []Parameter{}
	}

	if op.RequestBody == nil && len(e.Files) > 0 {
		op.RequestBody = filesRequestBody(e.Files)
	}

	for code, resp := range e.Responses {
		op.Responses[code] = resp
	}

	return op
}

// filesRequestBody describes declared upload fields as a multipart form.
func filesRequestBody(files []FileParam) *RequestBody {
	schema := JSONSchema{
		Type:       "object",
		Properties: make(map[string]JSONSchema, len(files)),
	}
	required := false
	for _, f := range files {
		schema.Properties[f.Field] = JSONSchema{
			Type:        "string",
			Format:      "binary",
			Description: f.Description,
		}
		if f.Required {
			schema.Required = append(schema.Required, f.Field)
			required = true
		}
	}

	return &RequestBody{
		Required: required,
		Content: map[string]MediaObj{
			"multipart/form-data": {Schema: &schema},
		},
	}
}

// ValidateSpec checks a generated document against the OpenAPI 3 schema.
func ValidateSpec(ctx context.Context, spec OpenAPISpec) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}

	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return fmt.Errorf("load spec: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("validate spec: %w", err)
	}
	return nil
}

// statusToString converts an HTTP status code to its string representation.
func statusToString(code int) string {
	return strconv.Itoa(code)
}

// statusDescription falls back to the standard status text.
func statusDescription(code int, desc string) string {
	if desc != "" {
		return desc
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Response " + statusToString(code)
}
