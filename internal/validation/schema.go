package validation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/property.schema.json
var propertySchemaJSON string

const propertySchemaURL = "property.schema.json"

// Schema checks the shape of a raw JSON body before it is decoded.
type Schema struct {
	schema *jsonschema.Schema
}

// NewPropertySchema compiles the embedded property payload schema.
func NewPropertySchema() (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(propertySchemaURL, strings.NewReader(propertySchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add property schema: %w", err)
	}
	schema, err := compiler.Compile(propertySchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile property schema: %w", err)
	}
	return &Schema{schema: schema}, nil
}

// Validate returns Errors when body is not JSON or does not match the schema.
func (s *Schema) Validate(body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return Errors{{Field: "body", Message: "Request body must be valid JSON"}}
	}

	err := s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	var out Errors
	for _, leaf := range leaves(verr) {
		if strings.HasSuffix(leaf.KeywordLocation, "/required") {
			out = append(out, s.missing(doc)...)
			continue
		}
		field := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if field == "" {
			out = append(out, FieldError{Field: "body", Message: "Request body must be a JSON object"})
			continue
		}
		out = append(out, FieldError{Field: field, Message: fmt.Sprintf("%s is invalid: %s", Label(field), leaf.Message)})
	}
	if len(out) == 0 {
		out = Errors{{Field: "body", Message: verr.Message}}
	}
	return out
}

func (s *Schema) missing(doc any) Errors {
	obj, _ := doc.(map[string]any)
	var out Errors
	for _, name := range s.schema.Required {
		if _, ok := obj[name]; !ok {
			out = append(out, FieldError{Field: name, Message: Label(name) + " is required"})
		}
	}
	return out
}

func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}
