package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-webapi/schema"
	"github.com/gaborage/go-webapi/server"
)

var petSchema = schema.Schema{
	schema.Scalar("name", "string"),
	schema.Scalar("age", "integer").AsOptional(),
	schema.Enum("status", "available", "on hold", "sold"),
	schema.Object("owner", schema.Schema{
		schema.Scalar("email", "string"),
		schema.Scalar("vip", "boolean").AsOptional(),
	}).AsOptional(),
	schema.Array("tags", schema.Schema{
		schema.Scalar("label", "string"),
		schema.Scalar("weight", "number").AsOptional(),
	}).AsOptional(),
	schema.Scalar("extra", "uuid").AsOptional(),
}

func decode(t *testing.T, body string) any {
	t.Helper()
	v, err := decodeBody([]byte(body))
	require.NoError(t, err)
	return v
}

func TestValidateBody(t *testing.T) {
	v := server.NewValidator()

	tests := []struct {
		name string
		body string
		want []server.FieldError
	}{
		{
			name: "valid_minimal",
			body: `{"name":"rex","status":"sold"}`,
		},
		{
			name: "valid_full_with_unknown_fields",
			body: `{"name":"rex","age":3,"status":"on hold","owner":{"email":"a@b.c","vip":true},
				"tags":[{"label":"dog","weight":1.5}],"extra":42,"ignored":[1]}`,
		},
		{
			name: "missing_required",
			body: `{}`,
			want: []server.FieldError{
				{Field: "name", Message: "name is required"},
				{Field: "status", Message: "status is required"},
			},
		},
		{
			name: "null_counts_as_missing",
			body: `{"name":null,"status":"sold","age":null}`,
			want: []server.FieldError{{Field: "name", Message: "name is required"}},
		},
		{
			name: "wrong_scalar_types",
			body: `{"name":7,"age":1.5,"status":"sold"}`,
			want: []server.FieldError{
				{Field: "name", Message: "name must be of type string", Value: "7"},
				{Field: "age", Message: "age must be of type integer", Value: "1.5"},
			},
		},
		{
			name: "enum_violation",
			body: `{"name":"rex","status":"lost"}`,
			want: []server.FieldError{
				{Field: "status", Message: "status must be one of [available, on hold, sold]", Value: "lost"},
			},
		},
		{
			name: "enum_non_scalar",
			body: `{"name":"rex","status":["sold"]}`,
			want: []server.FieldError{
				{Field: "status", Message: "status must be one of [available, on hold, sold]", Value: "array"},
			},
		},
		{
			name: "nested_object",
			body: `{"name":"rex","status":"sold","owner":{"vip":"yes"}}`,
			want: []server.FieldError{
				{Field: "owner.email", Message: "owner.email is required"},
				{Field: "owner.vip", Message: "owner.vip must be of type boolean", Value: "yes"},
			},
		},
		{
			name: "object_expected",
			body: `{"name":"rex","status":"sold","owner":"bob"}`,
			want: []server.FieldError{{Field: "owner", Message: "owner must be of type object", Value: "bob"}},
		},
		{
			name: "array_items",
			body: `{"name":"rex","status":"sold","tags":[{"label":"a"},"b",{"weight":"x"}]}`,
			want: []server.FieldError{
				{Field: "tags[1]", Message: "tags[1] must be of type object", Value: "b"},
				{Field: "tags[2].label", Message: "tags[2].label is required"},
				{Field: "tags[2].weight", Message: "tags[2].weight must be of type number", Value: "x"},
			},
		},
		{
			name: "array_expected",
			body: `{"name":"rex","status":"sold","tags":{}}`,
			want: []server.FieldError{{Field: "tags", Message: "tags must be of type array", Value: "object"}},
		},
		{
			name: "body_not_object",
			body: `[1,2]`,
			want: []server.FieldError{{Field: "body", Message: "body must be a JSON object", Value: "array"}},
		},
		{
			name: "empty_body",
			body: ``,
			want: []server.FieldError{{Field: "body", Message: "body must be a JSON object"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateBody(v, petSchema, decode(t, tt.body))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBodyRejectsTrailingData(t *testing.T) {
	_, err := decodeBody([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)

	_, err = decodeBody([]byte(`{"a":`))
	assert.Error(t, err)

	v, err := decodeBody([]byte("  {\"a\":1}\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1")}, v)
}

func TestOneOfTag(t *testing.T) {
	assert.Equal(t, "oneof=a 'b c' d", oneOfTag([]string{"a", "b c", "d"}))
}

func newValidatedEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.POST("/pets", func(c echo.Context) error {
		data, err := io.ReadAll(c.Request().Body)
		require.NoError(t, err)
		return c.String(http.StatusCreated, string(data))
	}, ValidateRequest(petSchema, server.NewValidator()))
	return e
}

func post(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestValidateRequestPassesBodyThrough(t *testing.T) {
	body := `{"name":"rex","status":"sold"}`
	rec := post(newValidatedEcho(t), body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, body, rec.Body.String())
}

func TestValidateRequestRejectsInvalidBody(t *testing.T) {
	rec := post(newValidatedEcho(t), `{"status":"lost"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var ve server.ValidationError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ve))
	assert.Equal(t, []server.FieldError{
		{Field: "name", Message: "name is required"},
		{Field: "status", Message: "status must be one of [available, on hold, sold]", Value: "lost"},
	}, ve.Errors)
}

func TestValidateRequestRejectsMalformedJSON(t *testing.T) {
	rec := post(newValidatedEcho(t), `{"name":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":[{"field":"body","message":"body must be valid JSON"}]}`, rec.Body.String())
}
