package lamp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/golamp/logging"
	"github.com/hupe1980/golamp/model"
	"github.com/hupe1980/golamp/trace"
)

// Prompt is the output of a PromptFunc. System is optional; empty means no
// system message is sent to the model.
type Prompt struct {
	System string
	Text   string
}

// TextPrompt builds a Prompt carrying only user text.
func TextPrompt(text string) Prompt { return Prompt{Text: text} }

// PromptFunc turns positional arguments into a prompt. It must be
// deterministic with respect to its arguments since the evaluation harness
// replays it per trial.
type PromptFunc func(args ...any) (Prompt, error)

// Kind discriminates the two result variants an invoker can produce.
type Kind int

const (
	// KindText marks a free-text result.
	KindText Kind = iota
	// KindObject marks a schema-validated structured result.
	KindObject
)

// String returns the string representation of the result kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Result is the tagged union returned by an invocation. Exactly one of Text
// or Object is populated; which one is fixed at invoker construction and
// never varies across calls.
type Result struct {
	Kind   Kind             `json:"kind"`
	Text   string           `json:"text,omitempty"`
	Object map[string]any   `json:"object,omitempty"`
	Usage  model.TokenUsage `json:"usage"`
}

// Options configure an Invoker.
type Options struct {
	// Settings are forwarded verbatim to the model on every call.
	Settings model.Settings
	// Logger receives structured call records (defaults to NoOp).
	Logger logging.Logger
	// Debug enables trace emission to Sink after each call.
	Debug bool
	// Sink receives debug traces (defaults to a discarding sink).
	Sink trace.Sink
}

// Invoker binds a model, generation settings and a prompt function into a
// single callable. Construction decides the result kind once; the invoker
// holds no per-call mutable state and is safe for sequential reuse.
type Invoker struct {
	model    model.Model
	promptFn PromptFunc
	schema   map[string]any
	kind     Kind
	opts     Options
}

// NewTextInvoker binds a model and prompt function into a free-text invoker.
func NewTextInvoker(m model.Model, promptFn PromptFunc, optFns ...func(o *Options)) *Invoker {
	return newInvoker(m, promptFn, KindText, nil, optFns)
}

// NewObjectInvoker binds a model, prompt function and object schema into a
// structured-output invoker.
func NewObjectInvoker(m model.Model, promptFn PromptFunc, schema map[string]any, optFns ...func(o *Options)) *Invoker {
	return newInvoker(m, promptFn, KindObject, schema, optFns)
}

func newInvoker(m model.Model, promptFn PromptFunc, kind Kind, schema map[string]any, optFns []func(o *Options)) *Invoker {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Sink:   trace.NopSink{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Invoker{
		model:    m,
		promptFn: promptFn,
		schema:   schema,
		kind:     kind,
		opts:     opts,
	}
}

// Kind reports the result variant this invoker always produces.
func (inv *Invoker) Kind() Kind { return inv.kind }

// Invoke evaluates the prompt function with args, performs one generation
// and returns the result. Model faults propagate unmodified; this layer never
// catches or retries (the retry budget in Settings is interpreted by the
// provider SDK).
func (inv *Invoker) Invoke(ctx context.Context, args ...any) (*Result, error) {
	prompt, err := inv.promptFn(args...)
	if err != nil {
		return nil, fmt.Errorf("prompt function: %w", err)
	}

	invocationID := uuid.NewString()
	start := time.Now()

	var result *Result
	switch inv.kind {
	case KindObject:
		out, err := inv.model.GenerateObject(ctx, model.ObjectRequest{
			System:   prompt.System,
			Prompt:   prompt.Text,
			Schema:   inv.schema,
			Settings: inv.opts.Settings,
		})
		if err != nil {
			inv.logCall(invocationID, 0, time.Since(start), err)
			return nil, err
		}
		result = &Result{Kind: KindObject, Object: out.Object, Usage: out.Usage}
	default:
		out, err := inv.model.GenerateText(ctx, model.TextRequest{
			System:   prompt.System,
			Prompt:   prompt.Text,
			Settings: inv.opts.Settings,
		})
		if err != nil {
			inv.logCall(invocationID, 0, time.Since(start), err)
			return nil, err
		}
		result = &Result{Kind: KindText, Text: out.Text, Usage: out.Usage}
	}

	inv.logCall(invocationID, result.Usage.TotalTokens, time.Since(start), nil)

	if inv.opts.Debug {
		inv.emitTrace(invocationID, prompt, result)
	}

	return result, nil
}

func (inv *Invoker) logCall(invocationID string, tokens int, dur time.Duration, err error) {
	// The contextual logger carries the invocation id as a record attribute
	// and knows how to shape a model-call record.
	if gl, ok := inv.opts.Logger.(*logging.GolampLogger); ok {
		gl.WithComponent("lamp").WithInvocation(invocationID).
			LogModelCall(inv.model.Info().Name, tokens, dur, err == nil, err)
		return
	}
	if err != nil {
		inv.opts.Logger.Error("model call failed",
			"invocation_id", invocationID,
			"model", inv.model.Info().Name,
			"kind", inv.kind.String(),
			"duration", dur,
			"error", err)
		return
	}
	inv.opts.Logger.Debug("model call completed",
		"invocation_id", invocationID,
		"model", inv.model.Info().Name,
		"kind", inv.kind.String(),
		"total_tokens", tokens,
		"duration", dur)
}

// emitTrace writes the observational debug block. Purely a side effect; the
// returned result is never altered here.
func (inv *Invoker) emitTrace(invocationID string, prompt Prompt, result *Result) {
	sink := inv.opts.Sink
	sink.Rule()
	sink.Header("invocation " + invocationID)
	if prompt.System != "" {
		sink.Header("system")
		sink.Line(prompt.System)
	}
	sink.Header("prompt")
	sink.Line(prompt.Text)
	switch result.Kind {
	case KindObject:
		sink.Header("object")
		if raw, err := json.MarshalIndent(result.Object, "", "  "); err == nil {
			sink.Line(string(raw))
		}
	default:
		sink.Header("completion")
		sink.Line(result.Text)
	}
	sink.Rule()
}
