package ml

const FeatureNum = 4

// label values of a DataPoint
const (
	Negative float64 = 0.0
	Positive float64 = 1.0
)

var FeatureNames = [FeatureNum]string{"sepal_len", "sepal_wid", "petal_len", "petal_wid"}

// DataPoint is one labeled flower. Fields are unexported so a parsed point
// can't be changed after the loader built it.
type DataPoint struct {
	features   [FeatureNum]float64
	setosaProb float64
}

func NewDataPoint(sepalLen, sepalWid, petalLen, petalWid, setosaProb float64) DataPoint {
	return DataPoint{
		features:   [FeatureNum]float64{sepalLen, sepalWid, petalLen, petalWid},
		setosaProb: setosaProb,
	}
}

func (d DataPoint) SepalLen() float64 {
	return d.features[0]
}

func (d DataPoint) SepalWid() float64 {
	return d.features[1]
}

func (d DataPoint) PetalLen() float64 {
	return d.features[2]
}

func (d DataPoint) PetalWid() float64 {
	return d.features[3]
}

// Features returns a copy of the feature vector.
func (d DataPoint) Features() [FeatureNum]float64 {
	return d.features
}

// Label is the binary class indicator, 0.0 or 1.0.
func (d DataPoint) Label() float64 {
	return d.setosaProb
}

func (d DataPoint) IsPositive() bool {
	return d.setosaProb == Positive
}

// DataSet holds the training and test sequences in file order.
type DataSet struct {
	training []DataPoint
	test     []DataPoint
}

func NewDataSet(training, test []DataPoint) *DataSet {
	ds := &DataSet{
		training: make([]DataPoint, len(training)),
		test:     make([]DataPoint, len(test)),
	}
	copy(ds.training, training)
	copy(ds.test, test)
	return ds
}

func (ds *DataSet) TrainingSize() int {
	return len(ds.training)
}

func (ds *DataSet) TestSize() int {
	return len(ds.test)
}

// Training returns a copy of the training sequence.
func (ds *DataSet) Training() []DataPoint {
	return append([]DataPoint(nil), ds.training...)
}

// Test returns a copy of the test sequence.
func (ds *DataSet) Test() []DataPoint {
	return append([]DataPoint(nil), ds.test...)
}
