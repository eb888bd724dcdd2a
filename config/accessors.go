package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Accessors for keys outside the typed Config sections, such as the settings a
// service passes to its handlers as dependencies.

// Exists reports whether key is set by any configuration source.
func (c *Config) Exists(key string) bool {
	return c != nil && c.k != nil && c.k.Exists(key)
}

// GetString returns the value of key, or the first default when it is unset.
func (c *Config) GetString(key string, defaultVal ...string) string {
	if !c.Exists(key) {
		return first(defaultVal)
	}
	return c.k.String(key)
}

// GetInt returns the value of key as int, or the first default when it is unset
// or not an integer.
func (c *Config) GetInt(key string, defaultVal ...int) int {
	if !c.Exists(key) {
		return first(defaultVal)
	}
	n, err := strconv.Atoi(fmt.Sprint(c.k.Get(key)))
	if err != nil {
		return first(defaultVal)
	}
	return n
}

// GetBool returns the value of key as bool, or the first default when it is unset
// or not a boolean.
func (c *Config) GetBool(key string, defaultVal ...bool) bool {
	if !c.Exists(key) {
		return first(defaultVal)
	}
	b, err := strconv.ParseBool(fmt.Sprint(c.k.Get(key)))
	if err != nil {
		return first(defaultVal)
	}
	return b
}

// GetDuration returns the value of key as a duration, or the first default when it
// is unset or malformed.
func (c *Config) GetDuration(key string, defaultVal ...time.Duration) time.Duration {
	if !c.Exists(key) {
		return first(defaultVal)
	}
	d, err := time.ParseDuration(fmt.Sprint(c.k.Get(key)))
	if err != nil {
		return first(defaultVal)
	}
	return d
}

// GetRequiredString returns the value of key or a missing-field ConfigError.
func (c *Config) GetRequiredString(key string) (string, error) {
	if !c.Exists(key) {
		return "", NewMissingFieldError(key)
	}
	return c.k.String(key), nil
}

// Unmarshal decodes the subtree at key into out using koanf struct tags.
func (c *Config) Unmarshal(key string, out any) error {
	if c == nil || c.k == nil {
		return fmt.Errorf("configuration not initialized")
	}
	return c.k.Unmarshal(key, out)
}

// InjectInto populates the fields of a struct pointer from configuration keys:
//   - `config:"key.path"` names the key; fields without it are skipped
//   - `required:"true"` fails when the key is missing
//   - `default:"value"` is used when the key is missing
//
// Supported field kinds: string, int, int64, float64, bool and time.Duration.
func (c *Config) InjectInto(target any) error {
	if c == nil || c.k == nil {
		return fmt.Errorf("configuration not initialized")
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to a struct, got %T", target)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		key := sf.Tag.Get("config")
		if key == "" || !field.CanSet() {
			continue
		}

		var raw string
		switch def, hasDefault := sf.Tag.Lookup("default"); {
		case c.k.Exists(key):
			raw = fmt.Sprint(c.k.Get(key))
		case sf.Tag.Get("required") == "true":
			return NewMissingFieldError(key)
		case hasDefault:
			raw = def
		default:
			continue
		}

		if err := setField(field, raw); err != nil {
			return NewInvalidFieldError(key, err.Error())
		}
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func setField(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q", raw)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", raw)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", raw)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// envVarName is the environment variable Load maps onto key.
func envVarName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func first[T any](values []T) T {
	var zero T
	if len(values) > 0 {
		return values[0]
	}
	return zero
}
