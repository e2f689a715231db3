// ABOUTME: JSON schema to Gemini response schema conversion
// ABOUTME: Lets response shapes be declared as Go structs
package gemini

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"
)

// SchemaFor infers a Gemini schema from the Go type T
func SchemaFor[T any]() (*genai.Schema, error) {
	js, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("infer schema: %w", err)
	}
	gs := ConvSchema(js)
	// a top-level value is never null
	gs.Nullable = nil
	return gs, nil
}

// ConvSchema converts a JSON schema into the subset Gemini accepts
func ConvSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	enums := make([]string, 0, len(schema.Enum))
	for _, v := range schema.Enum {
		enums = append(enums, fmt.Sprintf("%v", v))
	}

	gs := genai.Schema{
		Format:      schema.Format,
		Description: schema.Description,
		Items:       ConvSchema(schema.Items),
		Required:    schema.Required,
	}
	if len(enums) > 0 {
		gs.Enum = enums
	}

	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for k, prop := range schema.Properties {
			gs.Properties[k] = ConvSchema(prop)
		}
		if len(schema.PropertyOrder) > 0 {
			gs.PropertyOrdering = schema.PropertyOrder
		}
	}

	// slices and pointers come back as ["null", "array"] and similar
	typ := schema.Type
	for _, t := range schema.Types {
		if t == "null" {
			gs.Nullable = genai.Ptr(true)
			continue
		}
		if typ == "" {
			typ = t
		}
	}

	switch typ {
	case "object":
		gs.Type = genai.TypeObject
	case "array":
		gs.Type = genai.TypeArray
	case "string":
		gs.Type = genai.TypeString
	case "number":
		gs.Type = genai.TypeNumber
	case "integer":
		gs.Type = genai.TypeInteger
	case "boolean":
		gs.Type = genai.TypeBoolean
	}
	return &gs
}
