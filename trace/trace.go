// Package trace defines the debug trace sink used by invokers. The sink is an
// injected collaborator so invocation logic stays side-effect free and the
// emitted trace is independently testable.
package trace

// Sink receives debug trace output from an invoker. Implementations are
// best-effort; failures to write are non-fatal and must not surface to the
// invocation path.
type Sink interface {
	// Line writes a single line of body text.
	Line(text string)
	// Header writes a section header.
	Header(title string)
	// Rule writes a horizontal rule separating trace blocks.
	Rule()
}

// NopSink discards all trace output. Used when no sink is configured.
type NopSink struct{}

// Line discards the text.
func (NopSink) Line(string) {}

// Header discards the title.
func (NopSink) Header(string) {}

// Rule does nothing.
func (NopSink) Rule() {}
