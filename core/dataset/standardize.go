package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"perceptron/common"
	"perceptron/core/ml"
)

const DefaultPositiveClass = "Iris-setosa"

// UniformFeature is returned when a feature column has zero deviation and
// can't be standardized.
type UniformFeature struct {
	Feature string
}

func (u *UniformFeature) Error() string {
	return fmt.Sprintf("feature %s has the same value in every row", u.Feature)
}

// Scale holds the per feature mean and sample standard deviation.
type Scale struct {
	Mean   [ml.FeatureNum]float64
	StdDev [ml.FeatureNum]float64
}

type rawRow struct {
	features [ml.FeatureNum]float64
	label    float64
}

// Standardizer turns the raw UCI iris CSV into the whitespace separated,
// standardized format the Loader reads.
type Standardizer struct {
	PositiveClass string
	// ShuffleSeed permutes the rows before writing when non zero.
	ShuffleSeed int64

	log common.Logger
}

func NewStandardizer(positiveClass string, shuffleSeed int64, log common.Logger) *Standardizer {
	if positiveClass == "" {
		positiveClass = DefaultPositiveClass
	}
	return &Standardizer{PositiveClass: positiveClass, ShuffleSeed: shuffleSeed, log: log}
}

func (s *Standardizer) Standardize(r io.Reader, w io.Writer) (*Scale, error) {
	rows, err := s.readRaw(r)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.Errorf("need at least 2 rows to standardize, got %d", len(rows))
	}

	scale := &Scale{}
	col := make([]float64, len(rows))
	for j := 0; j < ml.FeatureNum; j++ {
		for i, row := range rows {
			col[i] = row.features[j]
		}
		scale.Mean[j], scale.StdDev[j] = stat.MeanStdDev(col, nil)
		if scale.StdDev[j] == 0 {
			return nil, &UniformFeature{Feature: ml.FeatureNames[j]}
		}
	}

	if s.ShuffleSeed != 0 {
		rnd := rand.New(rand.NewSource(s.ShuffleSeed))
		rnd.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	}

	bw := bufio.NewWriter(w)
	for _, row := range rows {
		for j := 0; j < ml.FeatureNum; j++ {
			z := (row.features[j] - scale.Mean[j]) / scale.StdDev[j]
			bw.WriteString(strconv.FormatFloat(z, 'f', 6, 64))
			bw.WriteByte(' ')
		}
		bw.WriteString(strconv.FormatFloat(row.label, 'f', 1, 64))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return nil, errors.Wrap(err, "write standardized data")
	}

	s.log.Infof("standardized %d rows, positive class %s", len(rows), s.PositiveClass)
	return scale, nil
}

func (s *Standardizer) readRaw(r io.Reader) ([]rawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = ml.FeatureNum + 1
	cr.TrimLeadingSpace = true

	var rows []rawRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read raw iris data")
		}

		row := rawRow{label: ml.Negative}
		for j := 0; j < ml.FeatureNum; j++ {
			row.features[j], err = strconv.ParseFloat(strings.TrimSpace(record[j]), 64)
			if err != nil {
				line, _ := cr.FieldPos(j)
				return nil, &RecordError{Line: line, Text: strings.Join(record, ","),
					Reason: fmt.Sprintf("token %d is not a number", j+1)}
			}
		}
		if strings.TrimSpace(record[ml.FeatureNum]) == s.PositiveClass {
			row.label = ml.Positive
		}
		rows = append(rows, row)
	}
	return rows, nil
}
