package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleStruct struct {
	A string  `json:"a" description:"Field A"`
	B *int    `json:"b" description:"Optional pointer field"`
	C int     `json:"c,omitempty" description:"Omit empty field"`
	D float64 `json:"d"`
}

func TestStructSchema(t *testing.T) {
	schema := StructSchema(sampleStruct{})
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	assert.Contains(t, props, "d")

	aSchema := props["a"].(map[string]any)
	assert.Equal(t, "string", aSchema["type"])
	assert.Equal(t, "Field A", aSchema["description"])

	// Required excludes pointer and omitempty fields.
	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"a", "d"}, req)
}

func TestStructSchema_NonStruct(t *testing.T) {
	schema := StructSchema(42)
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
}

func TestStructSchema_Nil(t *testing.T) {
	schema := StructSchema(nil)
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])

	var p *struct{ A string }
	schema = StructSchema(p)
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["properties"], "A")
}

func TestValidateObject(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// []any mirrors the shape of a JSON-decoded schema
		"required": []any{"x"},
	}

	// Success
	err := ValidateObject(map[string]any{"x": 5}, schema)
	assert.NoError(t, err)

	// JSON-decoded integers arrive as float64 and still validate.
	err = ValidateObject(map[string]any{"x": float64(5)}, schema)
	assert.NoError(t, err)

	// Missing required
	err = ValidateObject(map[string]any{}, schema)
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "x", vErr.Field)

	// Wrong type
	err = ValidateObject(map[string]any{"x": "not-int"}, schema)
	require.Error(t, err)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "expected type integer")
}

func TestValidateObject_ExtraFieldsTolerated(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
	assert.NoError(t, ValidateObject(map[string]any{"extra": true}, schema))
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("Hello {{.name}}, you have {{.count}} items", map[string]any{
		"name":  "Ada",
		"count": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada, you have 3 items", out)
}

func TestRenderTemplate_FastPath(t *testing.T) {
	out, err := RenderTemplate("no markers here", nil)
	require.NoError(t, err)
	assert.Equal(t, "no markers here", out)
}

func TestRenderTemplate_Funcs(t *testing.T) {
	out, err := RenderTemplate("{{upper .word}}", map[string]any{"word": "loud"})
	require.NoError(t, err)
	assert.Equal(t, "LOUD", out)
}
