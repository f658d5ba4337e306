package docs

import (
	"sort"
	"strings"
	"sync"
)

// Version is the OpenAPI document version emitted by this package.
const Version = "3.1.0"

// Info describes the API in the document header.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Response is a single documented response.
type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// MediaType holds the schema of a response body.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Schema is the subset of JSON Schema used by the handlers.
type Schema struct {
	Type       string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format     string             `json:"format,omitempty" yaml:"format,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Example    any                `json:"example,omitempty" yaml:"example,omitempty"`
}

// Operation documents one method on one path.
type Operation struct {
	Method      string              `json:"-" yaml:"-"`
	Path        string              `json:"-" yaml:"-"`
	OperationID string              `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

// PathItem maps lowercase HTTP methods to operations.
type PathItem map[string]*Operation

// Spec is the serialisable OpenAPI document.
type Spec struct {
	OpenAPI string              `json:"openapi" yaml:"openapi"`
	Info    Info                `json:"info" yaml:"info"`
	Paths   map[string]PathItem `json:"paths" yaml:"paths"`
}

// Document accumulates operations and renders them as a Spec.
type Document struct {
	mu   sync.RWMutex
	info Info
	ops  map[string]map[string]*Operation
}

// New creates an empty document
func New(info Info) *Document {
	return &Document{
		info: info,
		ops:  make(map[string]map[string]*Operation),
	}
}

// Add registers op. A later operation for the same method and path
// replaces the earlier one.
func (d *Document) Add(op Operation) {
	method := strings.ToLower(op.Method)
	if op.Responses == nil {
		op.Responses = map[string]Response{"200": {Description: "Successful Response"}}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	item, ok := d.ops[op.Path]
	if !ok {
		item = make(map[string]*Operation)
		d.ops[op.Path] = item
	}
	item[method] = &op
}

// Paths returns the documented paths in sorted order
func (d *Document) Paths() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	paths := make([]string, 0, len(d.ops))
	for p := range d.ops {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Spec snapshots the document.
func (d *Document) Spec() Spec {
	d.mu.RLock()
	defer d.mu.RUnlock()

	paths := make(map[string]PathItem, len(d.ops))
	for p, methods := range d.ops {
		item := make(PathItem, len(methods))
		for m, op := range methods {
			copied := *op
			item[m] = &copied
		}
		paths[p] = item
	}
	return Spec{OpenAPI: Version, Info: d.info, Paths: paths}
}

// JSONResponse is shorthand for a 200 response with an object schema.
func JSONResponse(description string, schema *Schema) map[string]Response {
	return map[string]Response{
		"200": {
			Description: description,
			Content: map[string]MediaType{
				"application/json": {Schema: schema},
			},
		},
	}
}
