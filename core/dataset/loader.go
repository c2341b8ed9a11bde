package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"perceptron/common"
	"perceptron/core/ml"
)

// tokens per record: four features and the label
const recordTokens = ml.FeatureNum + 1

var ErrShortFile = errors.New("dataset file is shorter than training plus test size")

// RecordError reports a line that could not become a DataPoint.
type RecordError struct {
	Line   int
	Text   string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

type Loader struct {
	trainingSize int
	testSize     int
	log          common.Logger
}

func NewLoader(trainingSize, testSize int, log common.Logger) *Loader {
	return &Loader{
		trainingSize: trainingSize,
		testSize:     testSize,
		log:          log,
	}
}

// Load reads the first trainingSize+testSize records of the file at path.
func (l *Loader) Load(path string) (*ml.DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()

	ds, err := l.Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load dataset %s", path)
	}
	l.log.Infof("loaded %s: %d training, %d test samples", path, ds.TrainingSize(), ds.TestSize())
	return ds, nil
}

// Read parses records in order; the first trainingSize go to training, the
// next testSize to test. Anything after that is ignored.
func (l *Loader) Read(r io.Reader) (*ml.DataSet, error) {
	want := l.trainingSize + l.testSize
	points := make([]ml.DataPoint, 0, want)

	scanner := bufio.NewScanner(r)
	line := 0
	for len(points) < want && scanner.Scan() {
		line++
		p, err := parseRecord(line, scanner.Text())
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read dataset")
	}
	if len(points) < want {
		return nil, errors.Wrapf(ErrShortFile, "got %d records, need %d", len(points), want)
	}
	if scanner.Scan() {
		l.log.Warnf("ignoring records after line %d", line)
	}

	return ml.NewDataSet(points[:l.trainingSize], points[l.trainingSize:]), nil
}

func parseRecord(line int, text string) (ml.DataPoint, error) {
	tokens := strings.Fields(text)
	if len(tokens) != recordTokens {
		return ml.DataPoint{}, &RecordError{Line: line, Text: text,
			Reason: fmt.Sprintf("expected %d tokens, got %d", recordTokens, len(tokens))}
	}

	var v [recordTokens]float64
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return ml.DataPoint{}, &RecordError{Line: line, Text: text,
				Reason: fmt.Sprintf("token %d is not a number", i+1)}
		}
		v[i] = f
	}

	label := v[recordTokens-1]
	if label != ml.Negative && label != ml.Positive {
		return ml.DataPoint{}, &RecordError{Line: line, Text: text,
			Reason: fmt.Sprintf("label %v is neither 0 nor 1", label)}
	}

	return ml.NewDataPoint(v[0], v[1], v[2], v[3], label), nil
}
