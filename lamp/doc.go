// Package lamp binds a model, generation settings and a prompt-construction
// function into a single invocation callable.
//
// An Invoker is created in one of two modes:
//   - NewTextInvoker: every call produces a free-text Result
//   - NewObjectInvoker: every call produces a schema-validated object Result
//
// The mode is a construction-time decision; a bound invoker never mixes
// result kinds across calls. Generation settings are forwarded verbatim to
// the model; faults from the model propagate unmodified. An optional debug
// trace (system message, prompt, produced output) can be emitted to an
// injected trace.Sink without affecting the returned result.
package lamp
