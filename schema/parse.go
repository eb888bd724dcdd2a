package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	keyType     = "type"
	keyItems    = "items"
	keySchema   = "schema"
	keyIn       = "in"
	keyOptional = "optional"

	typeArray = "array"
)

// Parse decodes a YAML (or JSON) mapping of property descriptors.
func Parse(data []byte) (Schema, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	return ParseNode(&node)
}

// ParseNode converts a YAML mapping node into a Schema, keeping key order.
func ParseNode(node *yaml.Node) (Schema, error) {
	return parseMapping("", node)
}

func parseMapping(prefix string, node *yaml.Node) (Schema, error) {
	node = resolve(node)
	if node == nil {
		return nil, newError(prefix, "schema is empty")
	}
	if node.Kind != yaml.MappingNode {
		return nil, newError(prefix, fmt.Sprintf("schema must be a mapping, got %s", describe(node)))
	}

	out := make(Schema, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		prop, err := parseProperty(joinPath(prefix, name), name, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, prop)
	}

	if err := out.checkNames(prefix); err != nil {
		return nil, err
	}
	return out, nil
}

// parseProperty applies the descriptor precedence: `in`, then missing `type`
// (embedded `schema`), then array, then scalar type.
func parseProperty(path, name string, node *yaml.Node) (Property, error) {
	node = resolve(node)
	prop := Property{Name: name}

	switch {
	case node == nil:
		return prop, newError(path, "descriptor is empty")
	case node.Kind == yaml.ScalarNode:
		if node.Value == "" || node.Tag == "!!null" {
			return prop, newError(path, "descriptor is empty")
		}
		prop.Kind = KindScalar
		prop.Type = node.Value
		return prop, nil
	case node.Kind != yaml.MappingNode:
		return prop, newError(path, fmt.Sprintf("descriptor must be a type name or a mapping, got %s", describe(node)))
	}

	fields := mappingFields(node)

	// The marker's presence counts, not its value.
	if _, ok := fields[keyOptional]; ok {
		prop.Optional = true
	}

	if in, ok := fields[keyIn]; ok {
		values, err := parseEnum(path, in)
		if err != nil {
			return prop, err
		}
		prop.Kind = KindEnum
		prop.Enum = values
		return prop, nil
	}

	typ, hasType := fields[keyType]
	if !hasType {
		nested, ok := fields[keySchema]
		if !ok {
			return prop, newError(path, "descriptor needs one of type, schema or in")
		}
		nestedSchema, err := parseMapping(path, nested)
		if err != nil {
			return prop, err
		}
		prop.Kind = KindObject
		prop.Fields = nestedSchema
		return prop, nil
	}

	typ = resolve(typ)
	if typ == nil || typ.Kind != yaml.ScalarNode || typ.Value == "" {
		return prop, newError(path, "type must be a non-empty string")
	}

	if typ.Value == typeArray {
		items, err := parseItems(path, fields[keyItems])
		if err != nil {
			return prop, err
		}
		prop.Kind = KindArray
		prop.Items = items
		return prop, nil
	}

	prop.Kind = KindScalar
	prop.Type = typ.Value
	return prop, nil
}

// parseItems requires `items.schema` to be a property mapping; arrays of scalars
// cannot be expressed in this format.
func parseItems(path string, node *yaml.Node) (Schema, error) {
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, newError(path, "array descriptor needs items.schema (arrays of scalars are not supported)")
	}
	nested, ok := mappingFields(node)[keySchema]
	if !ok {
		return nil, newError(path, "array descriptor needs items.schema (arrays of scalars are not supported)")
	}
	return parseMapping(path+"[]", nested)
}

func parseEnum(path string, node *yaml.Node) ([]string, error) {
	node = resolve(node)
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil, newError(path, "in must be a list of values")
	}
	if len(node.Content) == 0 {
		return nil, newError(path, "in must list at least one value")
	}
	values := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		item = resolve(item)
		if item == nil || item.Kind != yaml.ScalarNode {
			return nil, newError(path, "in values must be scalars")
		}
		values = append(values, item.Value)
	}
	return values, nil
}

func (s Schema) checkNames(prefix string) error {
	seen := make(map[string]struct{}, len(s))
	for i := range s {
		if _, dup := seen[s[i].Name]; dup {
			return newError(joinPath(prefix, s[i].Name), "duplicate property")
		}
		seen[s[i].Name] = struct{}{}
	}
	return nil
}

func mappingFields(node *yaml.Node) map[string]*yaml.Node {
	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		fields[node.Content[i].Value] = node.Content[i+1]
	}
	return fields
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch node.Kind {
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}
			node = node.Content[0]
		case yaml.AliasNode:
			node = node.Alias
		default:
			return node
		}
	}
	return nil
}

func describe(node *yaml.Node) string {
	switch node.Kind {
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "unsupported node"
	}
}
