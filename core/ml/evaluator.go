package ml

import "fmt"

// Threshold is the output at and above which the perceptron counts as firing.
const Threshold = 0.5

type Outcome int

const (
	TruePositive Outcome = iota
	TrueNegative
	FalsePositive
	FalseNegative
)

var Outcome_Name = map[Outcome]string{
	TruePositive:  "TP",
	TrueNegative:  "TN",
	FalsePositive: "FP",
	FalseNegative: "FN",
}

func (o Outcome) String() string {
	if n, ok := Outcome_Name[o]; ok {
		return n
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Classify puts one prediction into exactly one confusion matrix cell.
func Classify(sample DataPoint, output float64) Outcome {
	predicted := output >= Threshold
	actual := sample.Label() == Positive

	switch {
	case predicted && actual:
		return TruePositive
	case predicted:
		return FalsePositive
	case actual:
		return FalseNegative
	default:
		return TrueNegative
	}
}

// Stats is a confusion matrix snapshot of one evaluation pass.
type Stats struct {
	TruePositives  int
	TrueNegatives  int
	FalsePositives int
	FalseNegatives int
	Accuracy       float64
}

func (s *Stats) add(o Outcome) {
	switch o {
	case TruePositive:
		s.TruePositives++
	case TrueNegative:
		s.TrueNegatives++
	case FalsePositive:
		s.FalsePositives++
	case FalseNegative:
		s.FalseNegatives++
	}
}

func (s Stats) Total() int {
	return s.TruePositives + s.TrueNegatives + s.FalsePositives + s.FalseNegatives
}

func (s Stats) Correct() int {
	return s.TruePositives + s.TrueNegatives
}

// Precision is TP/(TP+FP), 0 when nothing was predicted positive.
func (s Stats) Precision() float64 {
	if s.TruePositives+s.FalsePositives == 0 {
		return 0
	}
	return float64(s.TruePositives) / float64(s.TruePositives+s.FalsePositives)
}

// Recall is TP/(TP+FN), 0 when there were no positives.
func (s Stats) Recall() float64 {
	if s.TruePositives+s.FalseNegatives == 0 {
		return 0
	}
	return float64(s.TruePositives) / float64(s.TruePositives+s.FalseNegatives)
}

type Evaluator struct {
	stats Stats
}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

func (e *Evaluator) Reset() {
	e.stats = Stats{}
}

// Evaluate scores p over test. Only Bind is called on p, so its weights are
// left untouched.
func (e *Evaluator) Evaluate(p *Perceptron, test []DataPoint) Stats {
	e.Reset()
	for _, sample := range test {
		p.Bind(sample)
		e.stats.add(Classify(sample, p.Output()))
	}
	if len(test) > 0 {
		e.stats.Accuracy = float64(e.stats.Correct()) / float64(len(test))
	}
	return e.stats
}

// Stats returns the snapshot of the last pass.
func (e *Evaluator) Stats() Stats {
	return e.stats
}
