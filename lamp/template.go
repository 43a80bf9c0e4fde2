package lamp

import (
	"fmt"

	"github.com/hupe1980/golamp/internal/util"
)

// TemplatePromptFunc builds a PromptFunc from a Go text template and the
// names its positional arguments bind to. At call time argument k is exposed
// to the template as {{.<argNames[k]>}}. The system message is passed through
// unrendered.
//
// Example:
//
//	fn := lamp.TemplatePromptFunc("You answer tersely.",
//		"How many {{.thing}} fit into {{.count}} boxes?", "thing", "count")
func TemplatePromptFunc(system, tmpl string, argNames ...string) PromptFunc {
	return func(args ...any) (Prompt, error) {
		if len(args) != len(argNames) {
			return Prompt{}, fmt.Errorf("template prompt: got %d args, want %d", len(args), len(argNames))
		}
		state := make(map[string]any, len(args))
		for i, name := range argNames {
			state[name] = args[i]
		}
		text, err := util.RenderTemplate(tmpl, state)
		if err != nil {
			return Prompt{}, fmt.Errorf("template prompt: %w", err)
		}
		return Prompt{System: system, Text: text}, nil
	}
}

// StaticPromptFunc builds a PromptFunc that ignores its arguments and always
// returns the same prompt. Handy for smoke tests and examples.
func StaticPromptFunc(prompt Prompt) PromptFunc {
	return func(...any) (Prompt, error) { return prompt, nil }
}
