package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_Empty(t *testing.T) {
	_, err := Describe(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = Describe([]float64{})
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestDescribe_SingleValue(t *testing.T) {
	for _, x := range []float64{0, 1, -7.5, 42} {
		s, err := Describe([]float64{x})
		require.NoError(t, err)
		assert.Equal(t, x, s.Average)
		assert.Equal(t, x, s.Median)
		assert.Equal(t, 0.0, s.Std)
		assert.Equal(t, x, s.Max)
		assert.Equal(t, x, s.Min)
	}
}

func TestDescribe_MedianEvenOdd(t *testing.T) {
	even, err := Describe([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 2.5, even.Median)

	odd, err := Describe([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2.0, odd.Median)
}

func TestDescribe_UnsortedInput(t *testing.T) {
	in := []float64{5, 1, 4, 2, 3}
	s, err := Describe(in)
	require.NoError(t, err)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 1.0, s.Min)
	// Input order must survive; computation works on a copy.
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, in)
}

func TestDescribe_AverageTimesLenEqualsSum(t *testing.T) {
	series := [][]float64{
		{1, 2, 3, 4},
		{0.1, 0.2, 0.3},
		{-2, 7, 11, 13, 17},
	}
	for _, vals := range series {
		s, err := Describe(vals)
		require.NoError(t, err)
		var sum float64
		for _, v := range vals {
			sum += v
		}
		assert.InDelta(t, sum, s.Average*float64(len(vals)), 1e-9)
	}
}

func TestDescribe_PopulationStd(t *testing.T) {
	// Population variance of {2, 4, 4, 4, 5, 5, 7, 9} is 4.
	s, err := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, s.Std, 1e-12)
	assert.InDelta(t, 5.0, s.Average, 1e-12)
}

func TestDescribe_NaNPropagates(t *testing.T) {
	s, err := Describe([]float64{1, math.NaN(), 3})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(s.Average))
	assert.True(t, math.IsNaN(s.Std))
}
