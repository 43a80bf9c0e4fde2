package lamp

import "github.com/hupe1980/golamp/internal/util"

// SchemaFor derives a JSON schema from a Go struct via reflection, for use
// with NewObjectInvoker. Field presence/optionality follows json tags:
// pointer and omitempty fields are optional, everything else required.
//
// Example:
//
//	type Recipe struct {
//		Name  string   `json:"name" description:"Recipe name"`
//		Steps []string `json:"steps"`
//	}
//	inv := lamp.NewObjectInvoker(m, fn, lamp.SchemaFor(Recipe{}))
func SchemaFor(structValue any) map[string]any {
	return util.StructSchema(structValue)
}
