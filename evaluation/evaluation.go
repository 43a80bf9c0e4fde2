package evaluation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/golamp/lamp"
	"github.com/hupe1980/golamp/logging"
	"github.com/hupe1980/golamp/stats"
)

// ErrNoTestCases is returned by Run when the evaluator was configured without
// test cases. An empty run has no defined statistics; this is a caller error,
// not a silently defaulted one.
var ErrNoTestCases = errors.New("evaluation: no test cases configured")

// TestCase pairs an input argument tuple for the invoker's prompt function
// with an expected/reference output. Supplied once at construction and
// immutable thereafter.
type TestCase struct {
	Input    []any  `json:"input"`
	Expected string `json:"expected"`
}

// Scorer grades one invocation result against its test case. Scorers may do
// their own I/O (e.g. model-graded scoring); an error aborts the entire run.
type Scorer func(ctx context.Context, tc TestCase, result *lamp.Result) (float64, error)

// Options configure an Evaluator. Defaults are merged once at construction.
type Options struct {
	// Iterations is the number of trials per test case (min 1).
	Iterations int
	// TestCases drive the run, in order.
	TestCases []TestCase
	// Scorer grades each trial (defaults to a constant 0).
	Scorer Scorer
	// Benchmark enables per-trial wall-clock timing.
	Benchmark bool
	// MaxModelCalls bounds the model calls per run; 0 means unlimited.
	MaxModelCalls int
	// Logger receives run/trial records (defaults to NoOp).
	Logger logging.Logger
}

// Series bundles an ordered value sequence with its descriptive statistics.
type Series struct {
	Values []float64 `json:"values"`
	stats.Summary
}

// Result is the outcome of one evaluation run. Index k in every series and
// in Responses addresses the same trial: test case k/iterations, iteration
// k%iterations. A fresh Result is built per Run; nothing is shared.
type Result struct {
	Scores           Series         `json:"scores"`
	ExecutionTimes   Series         `json:"execution_times"`
	PromptTokens     Series         `json:"prompt_tokens"`
	CompletionTokens Series         `json:"completion_tokens"`
	Responses        []*lamp.Result `json:"responses"`
	TestCases        []TestCase     `json:"test_cases"`
}

// Evaluator drives repeated invocations of a bound invoker across its test
// cases and reduces the collected metrics through descriptive statistics.
type Evaluator struct {
	opts Options
}

// NewEvaluator constructs an Evaluator with defaults merged in:
// iterations=1, no test cases, constant-zero scorer, benchmarking off.
func NewEvaluator(optFns ...func(o *Options)) *Evaluator {
	opts := Options{
		Iterations: 1,
		Scorer:     func(context.Context, TestCase, *lamp.Result) (float64, error) { return 0, nil },
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Iterations < 1 {
		opts.Iterations = 1
	}
	return &Evaluator{opts: opts}
}

// Run executes iterations trials per test case, strictly in sequence: test
// cases in input order, iterations ascending within each. Every trial is one
// invocation, one usage record and one score. Any fault (model, prompt
// function, scorer, call budget) aborts the run with no partial result.
func (e *Evaluator) Run(ctx context.Context, inv *lamp.Invoker) (*Result, error) {
	if len(e.opts.TestCases) == 0 {
		return nil, ErrNoTestCases
	}

	runID := uuid.NewString()
	logger := e.opts.Logger
	if gl, ok := logger.(*logging.GolampLogger); ok {
		rl := gl.WithComponent("evaluation").WithRun(runID)
		defer rl.StartTimer("evaluation run")()
		logger = rl
	}
	limiter := NewCallLimiter(e.opts.MaxModelCalls)
	total := len(e.opts.TestCases) * e.opts.Iterations

	responses := make([]*lamp.Result, 0, total)
	scores := make([]float64, 0, total)
	promptTokens := make([]float64, 0, total)
	completionTokens := make([]float64, 0, total)
	var executionTimes []float64
	if e.opts.Benchmark {
		executionTimes = make([]float64, 0, total)
	}

	runStart := time.Now()

	for tcIdx, tc := range e.opts.TestCases {
		for iter := 0; iter < e.opts.Iterations; iter++ {
			if err := limiter.Increment(); err != nil {
				return nil, err
			}

			var start time.Time
			if e.opts.Benchmark {
				start = time.Now()
			}

			result, err := inv.Invoke(ctx, tc.Input...)
			if err != nil {
				return nil, err
			}

			if e.opts.Benchmark {
				executionTimes = append(executionTimes, float64(time.Since(start))/float64(time.Millisecond))
			}

			responses = append(responses, result)
			promptTokens = append(promptTokens, float64(result.Usage.PromptTokens))
			completionTokens = append(completionTokens, float64(result.Usage.CompletionTokens))

			score, err := e.opts.Scorer(ctx, tc, result)
			if err != nil {
				return nil, err
			}
			scores = append(scores, score)

			logger.Debug("trial completed",
				"test_case", tcIdx,
				"iteration", iter,
				"score", score,
				"total_tokens", result.Usage.TotalTokens)
		}
	}

	res := &Result{
		Scores:           newSeries(scores),
		ExecutionTimes:   newSeries(executionTimes),
		PromptTokens:     newSeries(promptTokens),
		CompletionTokens: newSeries(completionTokens),
		Responses:        responses,
		TestCases:        e.opts.TestCases,
	}

	logger.Info("evaluation run completed",
		"trials", total,
		"model_calls", limiter.Count(),
		"avg_score", res.Scores.Average,
		"duration", time.Since(runStart))

	return res, nil
}

// newSeries attaches descriptive statistics to a value series. An empty
// series (executionTimes with benchmarking disabled) keeps a zero Summary
// instead of surfacing stats.ErrEmptySeries; the guard lives here so the
// trial loop never has to special-case it.
func newSeries(values []float64) Series {
	if values == nil {
		values = []float64{}
	}
	s := Series{Values: values}
	if len(values) > 0 {
		s.Summary, _ = stats.Describe(values)
	}
	return s
}
