// Package scorer provides ready-made scoring functions for the evaluation
// harness. Each scorer grades the textual form of a result against the test
// case's expected output and returns 1 for a pass, 0 otherwise.
package scorer

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/hupe1980/golamp/evaluation"
	"github.com/hupe1980/golamp/lamp"
)

// ExactMatch passes when the produced text equals the expected output.
type ExactMatch struct {
	CaseSensitive       bool
	NormalizeWhitespace bool
}

// Score implements an evaluation.Scorer.
func (s ExactMatch) Score(_ context.Context, tc evaluation.TestCase, result *lamp.Result) (float64, error) {
	got := normalize(resultText(result), s.CaseSensitive, s.NormalizeWhitespace)
	want := normalize(tc.Expected, s.CaseSensitive, s.NormalizeWhitespace)
	if got == want {
		return 1, nil
	}
	return 0, nil
}

// Includes passes when the produced text contains the expected output.
type Includes struct {
	CaseSensitive       bool
	NormalizeWhitespace bool
}

// Score implements an evaluation.Scorer.
func (s Includes) Score(_ context.Context, tc evaluation.TestCase, result *lamp.Result) (float64, error) {
	got := normalize(resultText(result), s.CaseSensitive, s.NormalizeWhitespace)
	want := normalize(tc.Expected, s.CaseSensitive, s.NormalizeWhitespace)
	if strings.Contains(got, want) {
		return 1, nil
	}
	return 0, nil
}

// NumericMatch passes when the first number found in the produced text is
// within Tolerance of the expected value.
type NumericMatch struct {
	Tolerance float64
}

// Score implements an evaluation.Scorer.
func (s NumericMatch) Score(_ context.Context, tc evaluation.TestCase, result *lamp.Result) (float64, error) {
	want, err := strconv.ParseFloat(strings.TrimSpace(tc.Expected), 64)
	if err != nil {
		return 0, err
	}
	got, ok := firstNumber(resultText(result))
	if !ok {
		return 0, nil
	}
	if math.Abs(got-want) <= s.Tolerance {
		return 1, nil
	}
	return 0, nil
}

// resultText reduces a result to comparable text; object results compare by
// their compact JSON encoding.
func resultText(result *lamp.Result) string {
	if result.Kind == lamp.KindObject {
		raw, err := json.Marshal(result.Object)
		if err != nil {
			return ""
		}
		return string(raw)
	}
	return result.Text
}

func normalize(s string, caseSensitive, normalizeWhitespace bool) string {
	if !caseSensitive {
		s = strings.ToLower(s)
	}
	if normalizeWhitespace {
		s = strings.Join(strings.Fields(s), " ")
	}
	return strings.TrimSpace(s)
}

// firstNumber scans the text for the first parseable float token.
func firstNumber(text string) (float64, bool) {
	for _, field := range strings.Fields(text) {
		field = strings.Trim(field, ".,;:!?()[]")
		if v, err := strconv.ParseFloat(field, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
