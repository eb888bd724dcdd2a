package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gaborage/go-webapi/openapi"
	"github.com/gaborage/go-webapi/schema"
	"github.com/gaborage/go-webapi/server"
)

// Definition is one parsed controller file.
type Definition struct {
	// File is the base name of the controller file, e.g. "pets.yaml".
	File    string
	Actions []Action
}

// Stem returns the file name without its extension.
func (d *Definition) Stem() string {
	return strings.TrimSuffix(d.File, filepath.Ext(d.File))
}

// Action is one route declared by a controller file.
type Action struct {
	ID           string   `validate:"required"`
	Method       string   `validate:"required,oneof=get post put patch delete head options"`
	Path         string   `validate:"required,startswith=/"`
	Description  string
	Dependencies []string `validate:"dive,required"`
	Handler      string
	Request      *Message
	Response     *Message
}

// Message describes a request or response body.
type Message struct {
	Name        string
	Description string
	Schema      schema.Schema
}

// HandlerName returns the Catalog key the action binds to: the explicit handler,
// or "<file stem>.<action id>".
func (a *Action) HandlerName(def *Definition) string {
	if a.Handler != "" {
		return a.Handler
	}
	return def.Stem() + "." + a.ID
}

// Endpoint converts the action into the descriptor consumed by the OpenAPI builder.
func (a *Action) Endpoint() openapi.Endpoint {
	ep := openapi.Endpoint{
		Path:        a.Path,
		Method:      a.Method,
		Description: a.Description,
	}
	if a.Request != nil {
		ep.Request = &openapi.Body{Name: a.Request.Name, Description: a.Request.Description, Schema: a.Request.Schema}
	}
	if a.Response != nil {
		ep.Response = &openapi.Body{Description: a.Response.Description, Schema: a.Response.Schema}
	}
	return ep
}

type rawAction struct {
	Method       string      `yaml:"method"`
	Path         string      `yaml:"path"`
	Description  string      `yaml:"description"`
	Dependencies []string    `yaml:"dependencies"`
	Handler      string      `yaml:"handler"`
	Request      *rawMessage `yaml:"request"`
	Response     *rawMessage `yaml:"response"`
}

type rawMessage struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Body        struct {
		Schema yaml.Node `yaml:"schema"`
	} `yaml:"body"`
}

var actionValidator = server.NewValidator()

// ParseDefinition parses a controller file. Actions keep the order of the top-level keys.
func ParseDefinition(file string, data []byte) (*Definition, error) {
	def := &Definition{File: filepath.Base(file)}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{File: def.File, Err: fmt.Errorf("invalid yaml: %w", err)}
	}
	if doc.Kind == 0 {
		return def, nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &Error{File: def.File, Err: errors.New("top level must be a mapping of action ids")}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		id := root.Content[i].Value
		action, err := parseAction(id, root.Content[i+1])
		if err != nil {
			return nil, &Error{File: def.File, Action: id, Err: err}
		}
		def.Actions = append(def.Actions, action)
	}
	return def, nil
}

func parseAction(id string, node *yaml.Node) (Action, error) {
	var raw rawAction
	if err := node.Decode(&raw); err != nil {
		return Action{}, fmt.Errorf("invalid action: %w", err)
	}

	action := Action{
		ID:           id,
		Method:       strings.ToLower(strings.TrimSpace(raw.Method)),
		Path:         strings.TrimSpace(raw.Path),
		Description:  raw.Description,
		Dependencies: raw.Dependencies,
		Handler:      raw.Handler,
	}

	var err error
	if action.Request, err = parseMessage("request", raw.Request); err != nil {
		return Action{}, err
	}
	if action.Response, err = parseMessage("response", raw.Response); err != nil {
		return Action{}, err
	}

	if err := actionValidator.Validate(&action); err != nil {
		return Action{}, err
	}
	return action, nil
}

func parseMessage(kind string, raw *rawMessage) (*Message, error) {
	if raw == nil {
		return nil, nil
	}
	if raw.Body.Schema.Kind == 0 {
		return nil, fmt.Errorf("%s: body.schema is required", kind)
	}
	s, err := schema.ParseNode(&raw.Body.Schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return &Message{Name: raw.Name, Description: raw.Description, Schema: s}, nil
}
