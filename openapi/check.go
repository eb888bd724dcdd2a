package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
)

// ErrNilDocument is returned by Check for a nil document.
var ErrNilDocument = errors.New("openapi: nil document")

// Check validates doc structurally by loading it as a Swagger 2.0 document,
// converting it to OpenAPI 3 and running the kin-openapi validator.
func Check(ctx context.Context, doc *Document) error {
	if doc == nil {
		return ErrNilDocument
	}
	data, err := doc.JSON()
	if err != nil {
		return err
	}
	return CheckJSON(ctx, data)
}

// CheckJSON validates a JSON-encoded Swagger 2.0 document.
func CheckJSON(ctx context.Context, data []byte) error {
	var v2 openapi2.T
	if err := json.Unmarshal(data, &v2); err != nil {
		return fmt.Errorf("openapi: decode swagger document: %w", err)
	}
	if v2.Swagger != SwaggerVersion {
		return fmt.Errorf("openapi: unsupported swagger version %q", v2.Swagger)
	}

	v3, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return fmt.Errorf("openapi: convert swagger document: %w", err)
	}
	if err := v3.Validate(ctx); err != nil {
		return fmt.Errorf("openapi: invalid document: %w", err)
	}
	return nil
}
