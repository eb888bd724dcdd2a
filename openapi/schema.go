package openapi

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gaborage/go-webapi/schema"
)

// Swagger schema types emitted by the translator.
const (
	TypeObject = "object"
	TypeArray  = "array"
	TypeString = "string"
)

// SchemaNode is a Swagger 2.0 schema object. Object nodes always carry type,
// required and properties, even when the last two are empty.
type SchemaNode struct {
	Type       string
	Required   []string
	Properties []NamedSchema
	Items      *SchemaNode
	Enum       []string
}

// NamedSchema is one entry of an object node's properties, in declaration order.
type NamedSchema struct {
	Name   string
	Schema *SchemaNode
}

// Property returns the named property node, or nil.
func (n *SchemaNode) Property(name string) *SchemaNode {
	if n == nil {
		return nil
	}
	for i := range n.Properties {
		if n.Properties[i].Name == name {
			return n.Properties[i].Schema
		}
	}
	return nil
}

// Translate converts a property schema into an object SchemaNode.
func Translate(s schema.Schema) (*SchemaNode, error) {
	return translateObject("", s)
}

func translateObject(prefix string, s schema.Schema) (*SchemaNode, error) {
	node := &SchemaNode{
		Type:       TypeObject,
		Required:   []string{},
		Properties: make([]NamedSchema, 0, len(s)),
	}

	for i := range s {
		prop := &s[i]
		path := prop.Name
		if prefix != "" {
			path = prefix + "." + prop.Name
		}

		if !prop.Optional {
			node.Required = append(node.Required, prop.Name)
		}

		child, err := translateProperty(path, prop)
		if err != nil {
			return nil, err
		}
		node.Properties = append(node.Properties, NamedSchema{Name: prop.Name, Schema: child})
	}

	return node, nil
}

func translateProperty(path string, prop *schema.Property) (*SchemaNode, error) {
	switch prop.Kind {
	case schema.KindEnum:
		if len(prop.Enum) == 0 {
			return nil, &schema.Error{Path: path, Message: "enum property has no values"}
		}
		return &SchemaNode{Type: TypeString, Enum: append([]string(nil), prop.Enum...)}, nil
	case schema.KindObject:
		return translateObject(path, prop.Fields)
	case schema.KindArray:
		items, err := translateObject(path+"[]", prop.Items)
		if err != nil {
			return nil, err
		}
		return &SchemaNode{Type: TypeArray, Items: items}, nil
	case schema.KindScalar:
		if prop.Type == "" {
			return nil, &schema.Error{Path: path, Message: "scalar property has no type"}
		}
		return &SchemaNode{Type: prop.Type}, nil
	default:
		return nil, &schema.Error{Path: path, Message: fmt.Sprintf("cannot translate property of kind %s", prop.Kind)}
	}
}

// MarshalYAML emits the node with a stable key order.
func (n *SchemaNode) MarshalYAML() (any, error) {
	return n.yamlNode(), nil
}

func (n *SchemaNode) yamlNode() *yaml.Node {
	m := mappingNode()
	appendPair(m, "type", stringNode(n.Type))

	if n.Type == TypeObject {
		required := sequenceNode(len(n.Required) == 0)
		for _, name := range n.Required {
			required.Content = append(required.Content, stringNode(name))
		}
		appendPair(m, "required", required)

		properties := mappingNode()
		if len(n.Properties) == 0 {
			properties.Style = yaml.FlowStyle
		}
		for _, p := range n.Properties {
			appendPair(properties, p.Name, p.Schema.yamlNode())
		}
		appendPair(m, "properties", properties)
	}

	if n.Items != nil {
		appendPair(m, "items", n.Items.yamlNode())
	}

	if len(n.Enum) > 0 {
		enum := sequenceNode(false)
		for _, v := range n.Enum {
			enum.Content = append(enum.Content, stringNode(v))
		}
		appendPair(m, "enum", enum)
	}

	return m
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func sequenceNode(flow bool) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if flow {
		n.Style = yaml.FlowStyle
	}
	return n
}

func stringNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, stringNode(key), value)
}
