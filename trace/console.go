package trace

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ConsoleOptions configure the console sink.
type ConsoleOptions struct {
	// Output defaults to os.Stdout.
	Output io.Writer
	// Width of the horizontal rule.
	Width int
	// Color forces styling on or off. When nil, styling is enabled only if
	// the output is a terminal.
	Color *bool
}

// ConsoleSink writes trace blocks to a terminal with lipgloss styling.
// Styling is dropped automatically when the output is not a TTY so traces
// stay readable in redirected logs.
type ConsoleSink struct {
	w           io.Writer
	width       int
	color       bool
	headerStyle lipgloss.Style
	ruleStyle   lipgloss.Style
}

// NewConsoleSink creates a console sink writing to stdout by default.
func NewConsoleSink(optFns ...func(o *ConsoleOptions)) *ConsoleSink {
	opts := ConsoleOptions{
		Output: os.Stdout,
		Width:  60,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	color := false
	if opts.Color != nil {
		color = *opts.Color
	} else if f, ok := opts.Output.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return &ConsoleSink{
		w:           opts.Output,
		width:       opts.Width,
		color:       color,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		ruleStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Line writes a single line of body text.
func (s *ConsoleSink) Line(text string) {
	fmt.Fprintln(s.w, text)
}

// Header writes a styled section header.
func (s *ConsoleSink) Header(title string) {
	if s.color {
		title = s.headerStyle.Render(title)
	}
	fmt.Fprintln(s.w, title)
}

// Rule writes a horizontal rule.
func (s *ConsoleSink) Rule() {
	rule := strings.Repeat("─", s.width)
	if s.color {
		rule = s.ruleStyle.Render(rule)
	}
	fmt.Fprintln(s.w, rule)
}
