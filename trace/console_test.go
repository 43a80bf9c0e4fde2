package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleSink_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	noColor := false
	sink := NewConsoleSink(func(o *ConsoleOptions) {
		o.Output = &buf
		o.Width = 10
		o.Color = &noColor
	})

	sink.Rule()
	sink.Header("prompt")
	sink.Line("hello")
	sink.Rule()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		strings.Repeat("─", 10),
		"prompt",
		"hello",
		strings.Repeat("─", 10),
	}, lines)
}

func TestConsoleSink_NonFileWriterDisablesColor(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(func(o *ConsoleOptions) {
		o.Output = &buf
	})

	sink.Header("prompt")
	// No escape sequences when the writer is not a terminal.
	assert.Equal(t, "prompt\n", buf.String())
}

func TestNopSink(t *testing.T) {
	var s Sink = NopSink{}
	s.Line("x")
	s.Header("y")
	s.Rule()
}
