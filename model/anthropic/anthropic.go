// Package anthropic provides a model wrapper for the Anthropic Claude API.
// Free text maps onto the Messages API; structured objects are produced by
// forcing a single tool call whose input schema is the requested object
// schema, then validating the tool input against it.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/hupe1980/golamp/internal/util"
	"github.com/hupe1980/golamp/model"
)

// outputToolName is the synthetic tool used to coerce structured output.
const outputToolName = "structured_output"

// defaultMaxTokens applies when the caller leaves Settings.MaxTokens unset;
// the Messages API requires an explicit cap.
const defaultMaxTokens = 4096

// Options configures the Anthropic model adapter (model id, API key).
// Generation parameters travel per-request in model.Settings.
type Options struct {
	Model  anthropic.Model
	APIKey string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model: anthropic.ModelClaude3_5Sonnet20241022,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{
		client: &client,
		opts:   opts,
	}
}

// NewModelFromClient creates a new Anthropic model from an existing client
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model: anthropic.ModelClaude3_5Sonnet20241022,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{
		client: client,
		opts:   opts,
	}
}

// GenerateText implements model.Model.
func (m *Model) GenerateText(ctx context.Context, req model.TextRequest) (*model.TextResult, error) {
	params := m.buildParams(req.System, req.Prompt, req.Settings)

	resp, err := m.client.Messages.New(ctx, params, requestOptions(req.Settings)...)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}

	return &model.TextResult{
		Text:  text,
		Usage: usageFrom(resp),
	}, nil
}

// GenerateObject implements model.Model. The object schema becomes the input
// schema of a forced tool call; the tool input is decoded and validated
// locally since the API does not enforce the schema strictly.
func (m *Model) GenerateObject(ctx context.Context, req model.ObjectRequest) (*model.ObjectResult, error) {
	params := m.buildParams(req.System, req.Prompt, req.Settings)
	params.Tools = []anthropic.ToolUnionParam{
		anthropic.ToolUnionParamOfTool(inputSchemaFrom(req.Schema), outputToolName),
	}
	params.ToolChoice = anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{Name: outputToolName},
	}

	resp, err := m.client.Messages.New(ctx, params, requestOptions(req.Settings)...)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type != "tool_use" {
			continue
		}
		toolBlock := block.AsToolUse()

		raw, err := json.Marshal(toolBlock.Input)
		if err != nil {
			return nil, fmt.Errorf("encode tool input: %w", err)
		}
		var object map[string]any
		if err := json.Unmarshal(raw, &object); err != nil {
			return nil, fmt.Errorf("decode structured output: %w", err)
		}
		if err := util.ValidateObject(object, req.Schema); err != nil {
			return nil, err
		}

		return &model.ObjectResult{
			Object: object,
			Usage:  usageFrom(resp),
		}, nil
	}

	return nil, fmt.Errorf("no structured output returned")
}

// buildParams assembles message parameters, forwarding only the settings the
// caller actually set. Penalty settings have no Messages API equivalent and
// are dropped.
func (m *Model) buildParams(system, prompt string, settings model.Settings) anthropic.MessageNewParams {
	maxTokens := settings.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     m.opts.Model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if settings.Temperature > 0 {
		params.Temperature = anthropic.Float(settings.Temperature)
	}
	if settings.TopP > 0 {
		params.TopP = anthropic.Float(settings.TopP)
	}
	if settings.TopK > 0 {
		params.TopK = anthropic.Int(settings.TopK)
	}
	if len(settings.StopSequences) > 0 {
		params.StopSequences = settings.StopSequences
	}
	return params
}

// inputSchemaFrom converts a generic JSON schema into the tool input schema shape.
func inputSchemaFrom(schema map[string]any) anthropic.ToolInputSchemaParam {
	inputSchema := anthropic.ToolInputSchemaParam{
		Type: constant.Object("object"),
	}
	if properties, exists := schema["properties"]; exists {
		inputSchema.Properties = properties
	}
	if required, exists := schema["required"]; exists {
		switch req := required.(type) {
		case []string:
			inputSchema.Required = req
		case []any:
			var reqStrings []string
			for _, r := range req {
				if s, ok := r.(string); ok {
					reqStrings = append(reqStrings, s)
				}
			}
			inputSchema.Required = reqStrings
		}
	}
	return inputSchema
}

// requestOptions translates passthrough transport settings (retry budget,
// extra headers) into SDK request options.
func requestOptions(settings model.Settings) []option.RequestOption {
	var opts []option.RequestOption
	if settings.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(settings.MaxRetries))
	}
	for k, v := range settings.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	return opts
}

func usageFrom(resp *anthropic.Message) model.TokenUsage {
	prompt := int(resp.Usage.InputTokens)
	completion := int(resp.Usage.OutputTokens)
	return model.TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:               string(m.opts.Model),
		Provider:           "anthropic",
		SupportsStructured: true,
	}
}
