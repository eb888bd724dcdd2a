// Package openapi derives a Swagger 2.0 document from controller endpoint descriptors.
//
// A Builder owns one document. Initialize sets the top-level metadata once, then
// AddEndpoint is called for every controller action; each call updates the document
// and writes it to the configured Sink.
package openapi

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"

	"github.com/gaborage/go-webapi/schema"
)

// SwaggerVersion is the only document version produced.
const SwaggerVersion = "2.0"

// Parameter locations.
const (
	InBody = "body"
	InPath = "path"
)

// Response keys.
const (
	ResponseDefault = "default"
	ResponseOK      = "200"

	defaultResponseDescription = "none"
)

// Metadata is the top-level information published in the document.
type Metadata struct {
	Title       string
	Version     string
	Description string
	Host        string
	Base        string
}

// Endpoint describes one controller action.
type Endpoint struct {
	Path        string // colon syntax, e.g. /users/:id
	Method      string // HTTP verb, lowercase
	Description string
	Request     *Body
	Response    *Body
}

// Body is a request or response payload description.
type Body struct {
	Name        string
	Description string
	Schema      schema.Schema
}

// Document is a Swagger 2.0 document.
type Document struct {
	Swagger  string              `yaml:"swagger"`
	Info     Info                `yaml:"info"`
	Host     string              `yaml:"host"`
	BasePath string              `yaml:"basePath"`
	Tags     []Tag               `yaml:"tags"`
	Paths    map[string]PathItem `yaml:"paths"`
}

// Info is the document info object.
type Info struct {
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	Title       string `yaml:"title"`
}

// Tag groups operations in the documentation UI.
type Tag struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// PathItem maps lowercase HTTP methods to operations.
type PathItem map[string]*Operation

// Operation is a single path+method entry.
type Operation struct {
	Tags       []string            `yaml:"tags"`
	Parameters []Parameter         `yaml:"parameters"`
	Responses  map[string]Response `yaml:"responses"`
}

// Parameter is a body or path parameter. Body parameters carry Schema,
// path parameters carry Type.
type Parameter struct {
	Name        string      `yaml:"name"`
	In          string      `yaml:"in"`
	Description string      `yaml:"description"`
	Type        string      `yaml:"type,omitempty"`
	Required    bool        `yaml:"required"`
	Schema      *SchemaNode `yaml:"schema,omitempty"`
}

// Response is a response object.
type Response struct {
	Description string      `yaml:"description"`
	Schema      *SchemaNode `yaml:"schema,omitempty"`
}

// Operation returns the operation registered for path and method, or nil.
// path uses brace syntax as stored in the document.
func (d *Document) Operation(path, method string) *Operation {
	if d == nil || d.Paths == nil {
		return nil
	}
	return d.Paths[path][method]
}

// Tag returns the registered tag with the given name.
func (d *Document) Tag(name string) (Tag, bool) {
	for _, t := range d.Tags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}

// YAML serializes the document.
func (d *Document) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to close YAML encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON serializes the document as JSON. Property order inside schemas is not kept.
func (d *Document) JSON() ([]byte, error) {
	data, err := d.YAML()
	if err != nil {
		return nil, err
	}
	out, err := k8syaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert document to JSON: %w", err)
	}
	return out, nil
}

// clone copies the containers of d. Operations and schema nodes are never
// mutated once stored, so they are shared.
func (d *Document) clone() *Document {
	out := *d
	out.Tags = append([]Tag(nil), d.Tags...)
	if d.Paths != nil {
		out.Paths = make(map[string]PathItem, len(d.Paths))
		for path, item := range d.Paths {
			cp := make(PathItem, len(item))
			for method, op := range item {
				cp[method] = op
			}
			out.Paths[path] = cp
		}
	}
	return &out
}
