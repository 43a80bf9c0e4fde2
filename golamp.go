// Package golamp provides a high-level façade over the invocation layer
// (lamp) and the evaluation harness. Most applications interact with this
// package by:
//  1. Creating a Golamp via New() (optionally overriding settings, logger and trace sink)
//  2. Binding a model and prompt function into a text or object invoker
//  3. Invoking it directly, or driving it through Evaluate() with test cases
//
// The façade only threads shared options through to the underlying packages;
// all defaults are safe for local development and testing.
package golamp

import (
	"context"

	"github.com/hupe1980/golamp/evaluation"
	"github.com/hupe1980/golamp/lamp"
	"github.com/hupe1980/golamp/logging"
	"github.com/hupe1980/golamp/model"
	"github.com/hupe1980/golamp/trace"
)

// Options configures the Golamp instance.
type Options struct {
	// Settings are forwarded to every invoker created through this façade.
	Settings model.Settings

	// Debug enables trace emission on created invokers.
	Debug bool

	// Sink receives debug traces (defaults to a console sink).
	Sink trace.Sink

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Golamp is the high-level façade aggregating invocation and evaluation.
type Golamp struct {
	opts Options
}

// New creates a new Golamp instance with optional overrides.
func New(optFns ...func(o *Options)) *Golamp {
	opts := Options{
		Sink:   trace.NewConsoleSink(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Golamp{opts: opts}
}

// NewTextInvoker binds a model and prompt function into a free-text invoker
// carrying the façade's shared settings, logger and trace sink.
func (g *Golamp) NewTextInvoker(m model.Model, promptFn lamp.PromptFunc) *lamp.Invoker {
	return lamp.NewTextInvoker(m, promptFn, g.invokerOptions())
}

// NewObjectInvoker binds a model, prompt function and object schema into a
// structured-output invoker carrying the façade's shared options.
func (g *Golamp) NewObjectInvoker(m model.Model, promptFn lamp.PromptFunc, schema map[string]any) *lamp.Invoker {
	return lamp.NewObjectInvoker(m, promptFn, schema, g.invokerOptions())
}

// Evaluate runs an evaluation over the invoker. The façade's logger is used
// unless the caller overrides it.
func (g *Golamp) Evaluate(
	ctx context.Context,
	inv *lamp.Invoker,
	optFns ...func(o *evaluation.Options),
) (*evaluation.Result, error) {
	merged := make([]func(o *evaluation.Options), 0, len(optFns)+1)
	merged = append(merged, func(o *evaluation.Options) { o.Logger = g.opts.Logger })
	merged = append(merged, optFns...)

	return evaluation.NewEvaluator(merged...).Run(ctx, inv)
}

func (g *Golamp) invokerOptions() func(o *lamp.Options) {
	return func(o *lamp.Options) {
		o.Settings = g.opts.Settings
		o.Debug = g.opts.Debug
		o.Sink = g.opts.Sink
		o.Logger = g.opts.Logger
	}
}
