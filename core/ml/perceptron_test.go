package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeOutput(t *testing.T) {
	w := DefaultWeights()
	sample := NewDataPoint(5.1, 3.5, 1.4, 0.2, Positive)

	expect := w.Bias + w.Features[0]*5.1 + w.Features[1]*3.5 + w.Features[2]*1.4 + w.Features[3]*0.2
	assert.InDelta(t, expect, ComputeOutput(w, sample), 1e-12)
	assert.InDelta(t, -0.57, ComputeOutput(w, sample), 1e-12)

	// no squashing: far outside [0,1] stays there
	big := NewDataPoint(100, 0, 0, 0, Negative)
	assert.InDelta(t, 9.5, ComputeOutput(w, big), 1e-12)
}

func TestPerceptron_Bind(t *testing.T) {
	p := NewPerceptron(DefaultWeights(), DefaultLearningRate)
	_, ok := p.Sample()
	assert.False(t, ok)

	sample := NewDataPoint(5.1, 3.5, 1.4, 0.2, Positive)
	p.Bind(sample)

	bound, ok := p.Sample()
	require.True(t, ok)
	assert.Equal(t, sample, bound)
	assert.Equal(t, ComputeOutput(p.Weights(), sample), p.Output())
	assert.Equal(t, FalseNegative, Classify(sample, p.Output()))
}

func TestPerceptron_BindTwice(t *testing.T) {
	p := NewPerceptron(DefaultWeights(), DefaultLearningRate)
	sample := NewDataPoint(-0.9, 1.03, -1.34, -1.31, Positive)

	p.Bind(sample)
	first := p.Output()
	w := p.Weights()

	p.Bind(sample)
	assert.Equal(t, first, p.Output())
	assert.Equal(t, w, p.Weights())
}

func TestPerceptron_Update(t *testing.T) {
	p := NewPerceptron(DefaultWeights(), 0.001)
	p.Bind(NewDataPoint(5.1, 3.5, 1.4, 0.2, Positive))
	require.NoError(t, p.Update())

	// error = 1.57, adjustment = 0.00157
	w := p.Weights()
	assert.InDelta(t, -0.49843, w.Bias, 1e-9)
	assert.InDelta(t, 0.1+5.1*0.00157, w.Features[0], 1e-9)
	assert.InDelta(t, 0.108007, w.Features[0], 1e-9)
	assert.InDelta(t, -0.2+3.5*0.00157, w.Features[1], 1e-9)
	assert.InDelta(t, 0.1+1.4*0.00157, w.Features[2], 1e-9)
	assert.InDelta(t, -0.1+0.2*0.00157, w.Features[3], 1e-9)

	// output follows the new weights
	sample, _ := p.Sample()
	assert.Equal(t, ComputeOutput(w, sample), p.Output())
}

func TestPerceptron_UpdateZeroError(t *testing.T) {
	seed := Weights{Bias: 1}
	p := NewPerceptron(seed, DefaultLearningRate)
	p.Bind(NewDataPoint(0.3, -1.2, 0.7, 2.5, Positive))
	require.Equal(t, Positive, p.Output())

	require.NoError(t, p.Update())
	assert.Equal(t, seed, p.Weights())
}

func TestPerceptron_UpdateWithoutSample(t *testing.T) {
	p := NewPerceptron(DefaultWeights(), DefaultLearningRate)
	assert.ErrorIs(t, p.Update(), ErrNoSample)
	assert.Equal(t, DefaultWeights(), p.Weights())
}

func TestPerceptron_UpdateReducesError(t *testing.T) {
	p := NewPerceptron(DefaultWeights(), 0.01)
	sample := NewDataPoint(1.2, -0.4, 0.8, 0.3, Negative)
	p.Bind(sample)

	before := sample.Label() - p.Output()
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Update())
		after := sample.Label() - p.Output()
		assert.Less(t, abs(after), abs(before))
		before = after
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
