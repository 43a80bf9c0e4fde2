package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/golamp/internal/util"
)

// MockCall records one request received by a MockModel, for test assertions.
type MockCall struct {
	System   string
	Prompt   string
	Schema   map[string]any
	Settings Settings
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are keyed by prompt; unknown prompts get a deterministic echo.
// Token usage is synthesized from whitespace-separated word counts so tests
// can assert exact numbers.
type MockModel struct {
	info      Info
	responses map[string]string
	objects   map[string]map[string]any
	calls     []MockCall
	err       error
}

// NewMockModel constructs a MockModel with structured output support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{
			Name:               name,
			Provider:           "mock",
			SupportsStructured: true,
		},
		responses: make(map[string]string),
		objects:   make(map[string]map[string]any),
	}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// AddObject registers a deterministic canned object for a prompt.
func (m *MockModel) AddObject(prompt string, object map[string]any) { m.objects[prompt] = object }

// FailWith makes every subsequent call return err.
func (m *MockModel) FailWith(err error) { m.err = err }

// Calls returns the requests received so far, in order.
func (m *MockModel) Calls() []MockCall { return m.calls }

// GenerateText implements Model.
func (m *MockModel) GenerateText(ctx context.Context, req TextRequest) (*TextResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.calls = append(m.calls, MockCall{System: req.System, Prompt: req.Prompt, Settings: req.Settings})
	if m.err != nil {
		return nil, m.err
	}

	text, ok := m.responses[req.Prompt]
	if !ok {
		text = fmt.Sprintf("Mock response to: %s", req.Prompt)
	}
	return &TextResult{
		Text:  text,
		Usage: m.usage(req.System, req.Prompt, text),
	}, nil
}

// GenerateObject implements Model. The canned object is validated against the
// request schema, mirroring the schema-enforcement real providers perform.
func (m *MockModel) GenerateObject(ctx context.Context, req ObjectRequest) (*ObjectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.calls = append(m.calls, MockCall{System: req.System, Prompt: req.Prompt, Schema: req.Schema, Settings: req.Settings})
	if m.err != nil {
		return nil, m.err
	}

	object, ok := m.objects[req.Prompt]
	if !ok {
		return nil, fmt.Errorf("no canned object for prompt: %s", req.Prompt)
	}
	if err := util.ValidateObject(object, req.Schema); err != nil {
		return nil, err
	}
	return &ObjectResult{
		Object: object,
		Usage:  m.usage(req.System, req.Prompt, fmt.Sprintf("%v", object)),
	}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

func (m *MockModel) usage(system, prompt, completion string) TokenUsage {
	promptTokens := len(strings.Fields(system)) + len(strings.Fields(prompt))
	completionTokens := len(strings.Fields(completion))
	return TokenUsage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
	}
}
