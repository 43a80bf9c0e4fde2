// Package evaluation runs a bound invoker repeatedly across labeled test
// cases, grades each trial with a scorer and reports descriptive statistics
// over scores, latencies and token counts.
//
// Trials execute strictly sequentially; index k in every output series maps
// to test case k/iterations and iteration k%iterations. Any fault aborts the
// run without a partial result — callers wanting retries or salvage wrap the
// invoker themselves.
package evaluation
