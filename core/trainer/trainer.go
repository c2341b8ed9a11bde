package trainer

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"perceptron/common"
	"perceptron/core/ml"
	"perceptron/core/msgbus"
)

const DefaultEpochs = 20

type Config struct {
	Epochs       int
	LearningRate float64
	Seed         ml.Weights
}

func DefaultConfig() Config {
	return Config{
		Epochs:       DefaultEpochs,
		LearningRate: ml.DefaultLearningRate,
		Seed:         ml.DefaultWeights(),
	}
}

// RunInfo is published once when a run starts.
type RunInfo struct {
	RunID        string
	StartedAt    time.Time
	TrainingSize int
	TestSize     int
	Epochs       int
	LearningRate float64
	Seed         ml.Weights
}

// EpochReport is the evaluation taken at the start of an epoch, before that
// epoch's training pass. Epoch 0 scores the untrained perceptron.
type EpochReport struct {
	RunID   string
	Epoch   int
	Stats   ml.Stats
	Weights ml.Weights
}

type Result struct {
	RunID   string
	Reports []EpochReport
	Final   ml.Weights
}

// Trainer runs the evaluate/train cycle for a fixed number of epochs.
// Runs on the same Trainer never interleave.
type Trainer struct {
	conf Config
	bus  msgbus.MessageBus
	log  common.Logger

	mutex sync.Mutex
}

// NewTrainer builds a trainer; bus may be nil when nobody listens.
func NewTrainer(conf Config, bus msgbus.MessageBus, log common.Logger) *Trainer {
	return &Trainer{conf: conf, bus: bus, log: log}
}

func (t *Trainer) Run(ds *ml.DataSet) (*Result, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	runID := uuid.New().String()
	p := ml.NewPerceptron(t.conf.Seed, t.conf.LearningRate)
	e := ml.NewEvaluator()
	training, test := ds.Training(), ds.Test()

	info := RunInfo{
		RunID:        runID,
		StartedAt:    time.Now(),
		TrainingSize: len(training),
		TestSize:     len(test),
		Epochs:       t.conf.Epochs,
		LearningRate: t.conf.LearningRate,
		Seed:         t.conf.Seed,
	}
	t.log.Infof("run[%s] start: %d epochs, learning rate %v, %d training, %d test samples",
		runID, info.Epochs, info.LearningRate, info.TrainingSize, info.TestSize)
	if err := t.publish(runID, common.LocalTrainMsg_RunStart, info); err != nil {
		return nil, err
	}

	res := &Result{RunID: runID, Reports: make([]EpochReport, 0, t.conf.Epochs)}
	for epoch := 0; epoch < t.conf.Epochs; epoch++ {
		//1.evaluate
		stats := e.Evaluate(p, test)
		report := EpochReport{RunID: runID, Epoch: epoch, Stats: stats, Weights: p.Weights()}
		res.Reports = append(res.Reports, report)
		t.log.Infof("run[%s] epoch[%d] accuracy %.6f precision %.6f recall %.6f",
			runID, epoch, stats.Accuracy, stats.Precision(), stats.Recall())
		if err := t.publish(runID, common.LocalTrainMsg_Epoch, report); err != nil {
			return nil, err
		}

		//2.train
		if err := TrainEpoch(p, training); err != nil {
			return nil, errors.Wrapf(err, "run[%s] epoch[%d]", runID, epoch)
		}
		t.log.Debugf("run[%s] epoch[%d] trained: %s", runID, epoch, p.Weights())
	}
	res.Final = p.Weights()

	t.log.Infof("run[%s] finished: %s", runID, res.Final)
	if err := t.publish(runID, common.LocalTrainMsg_RunFinish, *res); err != nil {
		return nil, err
	}
	return res, nil
}

// TrainEpoch is one online pass: bind then update for every sample in order.
func TrainEpoch(p *ml.Perceptron, training []ml.DataPoint) error {
	for _, sample := range training {
		p.Bind(sample)
		if err := p.Update(); err != nil {
			return err
		}
	}
	return nil
}

func (t *Trainer) publish(runID string, msgType common.LocalMsgType, payload interface{}) error {
	if t.bus == nil {
		return nil
	}
	if err := t.bus.Publish(runID, msgType, payload); err != nil {
		t.log.Errorf("run[%s] publish %#x failed: %s", runID, uint32(msgType), err)
		return err
	}
	return nil
}
