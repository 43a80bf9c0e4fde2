package lamp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/golamp/logging"
	"github.com/hupe1980/golamp/model"
)

// recordingSink captures trace output for assertions.
type recordingSink struct {
	lines   []string
	headers []string
	rules   int
}

func (s *recordingSink) Line(text string)    { s.lines = append(s.lines, text) }
func (s *recordingSink) Header(title string) { s.headers = append(s.headers, title) }
func (s *recordingSink) Rule()               { s.rules++ }

func questionPrompt(args ...any) (Prompt, error) {
	return TextPrompt(fmt.Sprintf("How many %v boxes of %v?", args[0], args[1])), nil
}

func TestTextInvoker_KindStableAcrossCalls(t *testing.T) {
	m := model.NewMockModel("mock-1")
	inv := NewTextInvoker(m, questionPrompt)
	assert.Equal(t, KindText, inv.Kind())

	for i := 0; i < 3; i++ {
		res, err := inv.Invoke(context.Background(), 3, "red")
		require.NoError(t, err)
		assert.Equal(t, KindText, res.Kind)
		assert.NotEmpty(t, res.Text)
		assert.Nil(t, res.Object)
	}
}

func TestObjectInvoker_KindStableAcrossCalls(t *testing.T) {
	m := model.NewMockModel("mock-1")
	m.AddObject("How many 3 boxes of red?", map[string]any{"count": float64(3)})

	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"count": map[string]any{"type": "number"}},
		"required":   []string{"count"},
	}
	inv := NewObjectInvoker(m, questionPrompt, schema)
	assert.Equal(t, KindObject, inv.Kind())

	for i := 0; i < 3; i++ {
		res, err := inv.Invoke(context.Background(), 3, "red")
		require.NoError(t, err)
		assert.Equal(t, KindObject, res.Kind)
		assert.Empty(t, res.Text)
		assert.Equal(t, float64(3), res.Object["count"])
	}
}

func TestInvoke_SystemMessageForwarded(t *testing.T) {
	m := model.NewMockModel("mock-1")
	inv := NewTextInvoker(m, func(args ...any) (Prompt, error) {
		return Prompt{System: "S", Text: "P"}, nil
	})

	_, err := inv.Invoke(context.Background())
	require.NoError(t, err)

	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "S", calls[0].System)
	assert.Equal(t, "P", calls[0].Prompt)
}

func TestInvoke_BarePromptHasNoSystem(t *testing.T) {
	m := model.NewMockModel("mock-1")
	inv := NewTextInvoker(m, func(args ...any) (Prompt, error) {
		return TextPrompt("P"), nil
	})

	_, err := inv.Invoke(context.Background())
	require.NoError(t, err)

	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].System)
}

func TestInvoke_SettingsForwarded(t *testing.T) {
	m := model.NewMockModel("mock-1")
	inv := NewTextInvoker(m, questionPrompt, func(o *Options) {
		o.Settings = model.Settings{Temperature: 0.2, MaxTokens: 128, MaxRetries: 3}
	})

	_, err := inv.Invoke(context.Background(), 1, "blue")
	require.NoError(t, err)

	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 0.2, calls[0].Settings.Temperature)
	assert.Equal(t, int64(128), calls[0].Settings.MaxTokens)
	assert.Equal(t, 3, calls[0].Settings.MaxRetries)
}

func TestInvoke_ModelFaultPropagatesUnmodified(t *testing.T) {
	boom := errors.New("rate limited")
	m := model.NewMockModel("mock-1")
	m.FailWith(boom)

	inv := NewTextInvoker(m, questionPrompt)
	res, err := inv.Invoke(context.Background(), 1, "blue")
	assert.Nil(t, res)
	// The exact error, not a wrapped copy.
	assert.Equal(t, boom, err)
}

func TestInvoke_PromptFuncError(t *testing.T) {
	m := model.NewMockModel("mock-1")
	inv := NewTextInvoker(m, func(args ...any) (Prompt, error) {
		return Prompt{}, errors.New("bad args")
	})

	_, err := inv.Invoke(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt function")
	assert.Empty(t, m.Calls())
}

func TestInvoke_DebugTrace(t *testing.T) {
	m := model.NewMockModel("mock-1")
	m.AddResponse("P", "pong")
	sink := &recordingSink{}

	inv := NewTextInvoker(m, func(args ...any) (Prompt, error) {
		return Prompt{System: "S", Text: "P"}, nil
	}, func(o *Options) {
		o.Debug = true
		o.Sink = sink
	})

	res, err := inv.Invoke(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pong", res.Text)

	assert.Equal(t, 2, sink.rules)
	assert.Contains(t, sink.headers, "system")
	assert.Contains(t, sink.headers, "prompt")
	assert.Contains(t, sink.headers, "completion")
	assert.Contains(t, sink.lines, "S")
	assert.Contains(t, sink.lines, "P")
	assert.Contains(t, sink.lines, "pong")
}

func TestInvoke_NoTraceWithoutDebug(t *testing.T) {
	m := model.NewMockModel("mock-1")
	sink := &recordingSink{}

	inv := NewTextInvoker(m, questionPrompt, func(o *Options) {
		o.Sink = sink // debug left off
	})

	_, err := inv.Invoke(context.Background(), 1, "blue")
	require.NoError(t, err)
	assert.Zero(t, sink.rules)
	assert.Empty(t, sink.lines)
}

func TestTemplatePromptFunc(t *testing.T) {
	fn := TemplatePromptFunc("You answer tersely.",
		"How many {{.thing}} fit into {{.count}} boxes?", "thing", "count")

	p, err := fn("apples", 3)
	require.NoError(t, err)
	assert.Equal(t, "You answer tersely.", p.System)
	assert.Equal(t, "How many apples fit into 3 boxes?", p.Text)
}

func TestTemplatePromptFunc_ArgCountMismatch(t *testing.T) {
	fn := TemplatePromptFunc("", "{{.a}}", "a")
	_, err := fn()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 1")
}

func TestSchemaFor(t *testing.T) {
	type recipe struct {
		Name  string   `json:"name" description:"Recipe name"`
		Steps []string `json:"steps"`
		Note  *string  `json:"note"`
	}

	schema := SchemaFor(recipe{})
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "name")
	assert.Contains(t, props, "steps")
	assert.Contains(t, props, "note")

	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"name", "steps"}, req)
}

// decodeLogRecords parses the JSON lines a buffer-backed logger produced.
func decodeLogRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestInvoke_ContextualLoggerRecordsModelCall(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LogLevelDebug,
		Format: "json",
		Output: &buf,
	})

	m := model.NewMockModel("mock-1")
	m.AddResponse("P", "pong")
	inv := NewTextInvoker(m, func(args ...any) (Prompt, error) {
		return TextPrompt("P"), nil
	}, func(o *Options) {
		o.Logger = logger
	})

	_, err := inv.Invoke(context.Background())
	require.NoError(t, err)

	records := decodeLogRecords(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "Model call completed", records[0]["msg"])
	assert.Equal(t, "lamp", records[0]["component"])
	assert.Equal(t, "mock-1", records[0]["model"])
	assert.Equal(t, true, records[0]["success"])
	assert.NotEmpty(t, records[0]["invocation_id"])
	// One prompt word plus one completion word.
	assert.Equal(t, 2.0, records[0]["token_count"])
}

func TestInvoke_ContextualLoggerRecordsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LogLevelDebug,
		Format: "json",
		Output: &buf,
	})

	m := model.NewMockModel("mock-1")
	m.FailWith(errors.New("rate limited"))
	inv := NewTextInvoker(m, questionPrompt, func(o *Options) {
		o.Logger = logger
	})

	_, err := inv.Invoke(context.Background(), 1, "blue")
	require.Error(t, err)

	records := decodeLogRecords(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "Model call failed", records[0]["msg"])
	assert.Equal(t, false, records[0]["success"])
	assert.Equal(t, "rate limited", records[0]["error"])
}

func TestSchemaFor_Nil(t *testing.T) {
	schema := SchemaFor(nil)
	assert.Equal(t, "object", schema["type"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, props)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "object", KindObject.String())
	assert.True(t, strings.HasPrefix(Kind(99).String(), "unknown"))
}
