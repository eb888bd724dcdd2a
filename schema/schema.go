// Package schema models the property schemas that controller definition files use to
// describe request and response bodies.
//
// A schema is an ordered list of properties. Each property is exactly one of four
// kinds, decided when the definition is parsed:
//
//	name: string                       # KindScalar (bare type)
//	age: {type: integer}               # KindScalar
//	pets: {type: array, items: {schema: {...}}}  # KindArray
//	address: {schema: {...}}           # KindObject
//	status: {in: [active, disabled]}   # KindEnum
//
// Any descriptor carrying an `optional` key, whatever its value, is optional;
// properties are required otherwise.
package schema

import "fmt"

// Kind discriminates the variants of a Property.
type Kind int

const (
	KindScalar Kind = iota
	KindArray
	KindObject
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Property is one named entry of a Schema. Only the fields matching Kind are meaningful:
// Type for KindScalar, Items for KindArray, Fields for KindObject, Enum for KindEnum.
type Property struct {
	Name     string
	Kind     Kind
	Optional bool

	Type   string
	Items  Schema
	Fields Schema
	Enum   []string
}

// Schema is an ordered set of properties. Order follows declaration order.
type Schema []Property

// Names returns the property names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i := range s {
		names[i] = s[i].Name
	}
	return names
}

// Lookup returns the property with the given name.
func (s Schema) Lookup(name string) (Property, bool) {
	for i := range s {
		if s[i].Name == name {
			return s[i], true
		}
	}
	return Property{}, false
}

// Scalar builds a required scalar property.
func Scalar(name, typ string) Property {
	return Property{Name: name, Kind: KindScalar, Type: typ}
}

// Array builds a required array property whose items are objects described by items.
func Array(name string, items Schema) Property {
	return Property{Name: name, Kind: KindArray, Items: items}
}

// Object builds a required embedded object property.
func Object(name string, fields Schema) Property {
	return Property{Name: name, Kind: KindObject, Fields: fields}
}

// Enum builds a required string property restricted to values.
func Enum(name string, values ...string) Property {
	return Property{Name: name, Kind: KindEnum, Enum: values}
}

// AsOptional returns a copy of p marked optional.
func (p Property) AsOptional() Property {
	p.Optional = true
	return p
}

// Check reports the first structural problem in s, such as a scalar without a type,
// an enum without values, or a duplicated property name.
func (s Schema) Check() error {
	return s.check("")
}

func (s Schema) check(prefix string) error {
	seen := make(map[string]struct{}, len(s))
	for i := range s {
		p := &s[i]
		path := joinPath(prefix, p.Name)
		if p.Name == "" {
			return newError(path, "property name is empty")
		}
		if _, dup := seen[p.Name]; dup {
			return newError(path, "duplicate property")
		}
		seen[p.Name] = struct{}{}

		switch p.Kind {
		case KindScalar:
			if p.Type == "" {
				return newError(path, "scalar property has no type")
			}
		case KindEnum:
			if len(p.Enum) == 0 {
				return newError(path, "enum property has no values")
			}
		case KindObject:
			if err := p.Fields.check(path); err != nil {
				return err
			}
		case KindArray:
			if err := p.Items.check(path + "[]"); err != nil {
				return err
			}
		default:
			return newError(path, "unknown property kind "+p.Kind.String())
		}
	}
	return nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
