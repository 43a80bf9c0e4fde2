// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API. Free text maps onto a plain completion; structured
// objects use the JSON-schema response format so the API enforces the shape
// server-side.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/hupe1980/golamp/model"
)

// Options configure the OpenAI model adapter. Only the model id lives here;
// generation parameters travel per-request in model.Settings.
type Options struct {
	Model string
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model: openai.ChatModelGPT4oMini,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// GenerateText implements model.Model.
func (m *Model) GenerateText(ctx context.Context, req model.TextRequest) (*model.TextResult, error) {
	params := m.buildParams(req.System, req.Prompt, req.Settings)

	resp, err := m.client.Chat.Completions.New(ctx, params, requestOptions(req.Settings)...)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	return &model.TextResult{
		Text:  resp.Choices[0].Message.Content,
		Usage: usageFrom(resp),
	}, nil
}

// GenerateObject implements model.Model. The request schema is attached as a
// strict JSON-schema response format; the returned completion is decoded into
// a generic object.
func (m *Model) GenerateObject(ctx context.Context, req model.ObjectRequest) (*model.ObjectResult, error) {
	params := m.buildParams(req.System, req.Prompt, req.Settings)
	params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
			JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   "output",
				Schema: req.Schema,
				Strict: openai.Bool(true),
			},
		},
	}

	resp, err := m.client.Chat.Completions.New(ctx, params, requestOptions(req.Settings)...)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	var object map[string]any
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &object); err != nil {
		return nil, fmt.Errorf("decode structured output: %w", err)
	}

	return &model.ObjectResult{
		Object: object,
		Usage:  usageFrom(resp),
	}, nil
}

// buildParams assembles completion parameters, forwarding only the settings
// the caller actually set. TopK has no Chat Completions equivalent and is
// dropped.
func (m *Model) buildParams(system, prompt string, settings model.Settings) openai.ChatCompletionNewParams {
	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    shared.ChatModel(m.opts.Model),
	}
	if settings.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(settings.MaxTokens)
	}
	if settings.Temperature > 0 {
		params.Temperature = openai.Float(settings.Temperature)
	}
	if settings.TopP > 0 {
		params.TopP = openai.Float(settings.TopP)
	}
	if settings.PresencePenalty != 0 {
		params.PresencePenalty = openai.Float(settings.PresencePenalty)
	}
	if settings.FrequencyPenalty != 0 {
		params.FrequencyPenalty = openai.Float(settings.FrequencyPenalty)
	}
	if settings.Seed != 0 {
		params.Seed = openai.Int(settings.Seed)
	}
	if len(settings.StopSequences) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: settings.StopSequences}
	}
	return params
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

func usageFrom(resp *openai.ChatCompletion) model.TokenUsage {
	return model.TokenUsage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:               m.opts.Model,
		Provider:           "openai",
		SupportsStructured: true,
	}
}
