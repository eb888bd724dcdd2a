package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/go-webapi/schema"
	"github.com/gaborage/go-webapi/server"
)

const bodyField = "body"

// ValidateBody checks a decoded JSON value against s and returns one FieldError per
// violation. Numbers must be decoded as json.Number. Properties not in s are ignored.
func ValidateBody(v *server.Validator, s schema.Schema, body any) []server.FieldError {
	obj, ok := body.(map[string]any)
	if !ok {
		return []server.FieldError{{Field: bodyField, Message: "body must be a JSON object", Value: describeValue(body)}}
	}
	return validateObject(v, "", s, obj)
}

func validateObject(v *server.Validator, prefix string, s schema.Schema, obj map[string]any) []server.FieldError {
	var errs []server.FieldError
	for i := range s {
		prop := &s[i]
		field := joinField(prefix, prop.Name)
		value, present := obj[prop.Name]
		if !present || value == nil {
			if !prop.Optional {
				errs = append(errs, server.FieldError{Field: field, Message: field + " is required"})
			}
			continue
		}
		errs = append(errs, validateProperty(v, field, prop, value)...)
	}
	return errs
}

func validateProperty(v *server.Validator, field string, prop *schema.Property, value any) []server.FieldError {
	switch prop.Kind {
	case schema.KindEnum:
		if fe := validateEnum(v, field, prop.Enum, value); fe != nil {
			return []server.FieldError{*fe}
		}
	case schema.KindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return []server.FieldError{typeError(field, "object", value)}
		}
		return validateObject(v, field, prop.Fields, obj)
	case schema.KindArray:
		items, ok := value.([]any)
		if !ok {
			return []server.FieldError{typeError(field, "array", value)}
		}
		var errs []server.FieldError
		for i, item := range items {
			itemField := fmt.Sprintf("%s[%d]", field, i)
			obj, ok := item.(map[string]any)
			if !ok {
				errs = append(errs, typeError(itemField, "object", item))
				continue
			}
			errs = append(errs, validateObject(v, itemField, prop.Items, obj)...)
		}
		return errs
	case schema.KindScalar:
		if !scalarMatches(prop.Type, value) {
			return []server.FieldError{typeError(field, prop.Type, value)}
		}
	}
	return nil
}

func validateEnum(v *server.Validator, field string, allowed []string, value any) *server.FieldError {
	var s string
	switch val := value.(type) {
	case string:
		s = val
	case json.Number:
		s = val.String()
	case bool:
		s = strconv.FormatBool(val)
	default:
		return &server.FieldError{Field: field, Message: enumMessage(field, allowed), Value: describeValue(value)}
	}
	if fe := v.Var(field, s, oneOfTag(allowed)); fe != nil {
		fe.Message = enumMessage(field, allowed)
		return fe
	}
	return nil
}

func enumMessage(field string, allowed []string) string {
	return fmt.Sprintf("%s must be one of [%s]", field, strings.Join(allowed, ", "))
}

// oneOfTag renders a validator oneof rule, quoting values that contain spaces.
func oneOfTag(allowed []string) string {
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		if strings.ContainsAny(a, " \t") {
			a = "'" + a + "'"
		}
		quoted[i] = a
	}
	return "oneof=" + strings.Join(quoted, " ")
}

// scalarMatches checks the JSON types; type names it does not know accept any value.
func scalarMatches(typ string, value any) bool {
	switch typ {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		_, ok := value.(json.Number)
		return ok
	case "integer":
		n, ok := value.(json.Number)
		if !ok {
			return false
		}
		_, err := n.Int64()
		return err == nil
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}

func typeError(field, typ string, value any) server.FieldError {
	return server.FieldError{
		Field:   field,
		Message: fmt.Sprintf("%s must be of type %s", field, typ),
		Value:   describeValue(value),
	}
}

func describeValue(value any) string {
	switch value.(type) {
	case nil:
		return ""
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%v", value)
	}
}

func joinField(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// decodeBody decodes a JSON request body keeping numbers as json.Number.
// An empty body decodes to nil.
func decodeBody(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return body, nil
}

// ValidateRequest returns middleware validating the JSON request body against s.
// Violations answer 400 with {"errors":[{field, message, value}]}; otherwise the body
// is restored so the handler can bind it.
func ValidateRequest(s schema.Schema, v *server.Validator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			data, err := io.ReadAll(req.Body)
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					return err
				}
				return server.NewBadRequestError("Unable to read request body").WithCause(err)
			}
			_ = req.Body.Close()
			req.Body = io.NopCloser(bytes.NewReader(data))

			body, err := decodeBody(data)
			if err != nil {
				return c.JSON(http.StatusBadRequest, &server.ValidationError{Errors: []server.FieldError{{
					Field:   bodyField,
					Message: "body must be valid JSON",
				}}})
			}

			if errs := ValidateBody(v, s, body); len(errs) > 0 {
				return c.JSON(http.StatusBadRequest, &server.ValidationError{Errors: errs})
			}
			return next(c)
		}
	}
}
