package ml

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

const DefaultLearningRate = 0.001

var ErrNoSample = errors.New("perceptron has no bound sample")

type Weights struct {
	Bias     float64
	Features [FeatureNum]float64
}

// DefaultWeights are the seed values. The bias must stay negative, otherwise
// the perceptron fires on everything and never learns to stop.
func DefaultWeights() Weights {
	return Weights{
		Bias:     -0.5,
		Features: [FeatureNum]float64{0.1, -0.2, 0.1, -0.1},
	}
}

func (w Weights) String() string {
	return fmt.Sprintf("bias=%.6f sepalLen=%.6f sepalWid=%.6f petalLen=%.6f petalWid=%.6f",
		w.Bias, w.Features[0], w.Features[1], w.Features[2], w.Features[3])
}

func linear(x float64) float64 {
	return x
}

// ComputeOutput is the weighted sum of the sample's features plus bias,
// passed through the identity activation.
func ComputeOutput(w Weights, sample DataPoint) float64 {
	x := sample.Features()
	return linear(w.Bias + floats.Dot(w.Features[:], x[:]))
}

// Perceptron is a single linear unit trained with the delta rule. Output is
// recomputed on every Bind and Update, so it never disagrees with the bound
// sample and the current weights.
type Perceptron struct {
	weights      Weights
	learningRate float64

	sample DataPoint
	bound  bool
	output float64
}

func NewPerceptron(seed Weights, learningRate float64) *Perceptron {
	return &Perceptron{
		weights:      seed,
		learningRate: learningRate,
	}
}

// Bind stores a copy of sample and recomputes the output.
func (p *Perceptron) Bind(sample DataPoint) {
	p.sample = sample
	p.bound = true
	p.output = ComputeOutput(p.weights, sample)
}

// Update applies one delta rule step for the bound sample:
// bias += e*lr, w_i += x_i*e*lr with e = label - output.
func (p *Perceptron) Update() error {
	if !p.bound {
		return ErrNoSample
	}

	adj := (p.sample.Label() - p.output) * p.learningRate
	x := p.sample.Features()

	p.weights.Bias += adj
	floats.AddScaled(p.weights.Features[:], adj, x[:])

	p.output = ComputeOutput(p.weights, p.sample)
	return nil
}

func (p *Perceptron) Output() float64 {
	return p.output
}

// Sample returns the bound sample, false if nothing was bound yet.
func (p *Perceptron) Sample() (DataPoint, bool) {
	return p.sample, p.bound
}

func (p *Perceptron) Weights() Weights {
	return p.weights
}

func (p *Perceptron) LearningRate() float64 {
	return p.learningRate
}
