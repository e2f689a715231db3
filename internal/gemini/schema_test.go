// ABOUTME: Tests for schema conversion
// ABOUTME: Checks Go struct inference and JSON schema type mapping
package gemini

import (
	"slices"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"
)

type pair struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

func TestSchemaForSlice(t *testing.T) {
	s, err := SchemaFor[[]pair]()
	if err != nil {
		t.Fatalf("SchemaFor failed: %v", err)
	}

	if s.Type != genai.TypeArray {
		t.Fatalf("expected array, got %q", s.Type)
	}
	if s.Nullable != nil {
		t.Error("top-level schema should not be nullable")
	}
	if s.Items == nil || s.Items.Type != genai.TypeObject {
		t.Fatalf("expected object items, got %+v", s.Items)
	}
	for _, name := range []string{"setup", "punchline"} {
		prop, ok := s.Items.Properties[name]
		if !ok {
			t.Fatalf("missing property %q", name)
		}
		if prop.Type != genai.TypeString {
			t.Errorf("%s: expected string, got %q", name, prop.Type)
		}
		if !slices.Contains(s.Items.Required, name) {
			t.Errorf("%s should be required", name)
		}
	}
	if !slices.Equal(s.Items.PropertyOrdering, []string{"setup", "punchline"}) {
		t.Errorf("unexpected property ordering %v", s.Items.PropertyOrdering)
	}
}

func TestConvSchemaTypes(t *testing.T) {
	tests := []struct {
		in       *jsonschema.Schema
		want     genai.Type
		nullable bool
	}{
		{&jsonschema.Schema{Type: "string"}, genai.TypeString, false},
		{&jsonschema.Schema{Type: "integer"}, genai.TypeInteger, false},
		{&jsonschema.Schema{Type: "number"}, genai.TypeNumber, false},
		{&jsonschema.Schema{Type: "boolean"}, genai.TypeBoolean, false},
		{&jsonschema.Schema{Types: []string{"null", "array"}}, genai.TypeArray, true},
		{&jsonschema.Schema{Types: []string{"object", "null"}}, genai.TypeObject, true},
	}

	for _, tt := range tests {
		got := ConvSchema(tt.in)
		if got.Type != tt.want {
			t.Errorf("%+v: expected %q, got %q", tt.in, tt.want, got.Type)
		}
		if isNullable := got.Nullable != nil && *got.Nullable; isNullable != tt.nullable {
			t.Errorf("%+v: expected nullable=%v", tt.in, tt.nullable)
		}
	}
}

func TestConvSchemaEnum(t *testing.T) {
	got := ConvSchema(&jsonschema.Schema{Type: "string", Enum: []any{"light", "dark"}})
	if !slices.Equal(got.Enum, []string{"light", "dark"}) {
		t.Errorf("unexpected enum %v", got.Enum)
	}
	if ConvSchema(nil) != nil {
		t.Error("nil schema should convert to nil")
	}
}
