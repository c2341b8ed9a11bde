package node

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"perceptron/common"
	"perceptron/core/config"
	"perceptron/core/dataset"
	"perceptron/core/history"
	"perceptron/core/metrics"
	"perceptron/core/ml"
	"perceptron/core/msgbus"
	"perceptron/core/report"
	"perceptron/core/trainer"
)

// TrainerNode wires the loader, the training loop and the report
// subscribers for one process.
type TrainerNode struct {
	conf     *config.LocalConfig
	log      common.Logger
	msgBus   msgbus.MessageBus
	data     *ml.DataSet
	trainer  *trainer.Trainer
	reporter *report.Reporter
	observer *metrics.Observer
	history  *history.Store
}

// Init loads everything a run needs; load failures abort here, before any
// training happens.
func (n *TrainerNode) Init(c *config.LocalConfig, out io.Writer) error {
	n.conf = c
	common.SetLogConfig(c.LogConfig())
	n.log = common.GetLogger(common.MODULE_NODE)

	//before the other modules, so they can subscribe
	n.msgBus = msgbus.NewMessageBus()

	n.reporter = report.NewReporter(out, common.GetLogger(common.MODULE_REPORT))
	n.msgBus.Register(common.LocalTrainMsg, n.reporter)

	if c.Metrics.Textfile != "" {
		n.observer = metrics.NewObserver(common.GetLogger(common.MODULE_METRICS))
		n.msgBus.Register(common.LocalTrainMsg, n.observer)
	}

	if c.History.Path != "" {
		store, err := history.Open(c.History.Path, common.GetLogger(common.MODULE_HISTORY))
		if err != nil {
			return fmt.Errorf("history init err: %s", err)
		}
		n.history = store
		n.msgBus.Register(common.LocalTrainMsg, n.history)
	}

	loader := dataset.NewLoader(c.Dataset.TrainingSetSize, c.Dataset.TestSetSize, common.GetLogger(common.MODULE_DATASET))
	data, err := loader.Load(c.Dataset.Path)
	if err != nil {
		n.Close()
		return err
	}
	n.data = data

	n.trainer = trainer.NewTrainer(c.TrainerConfig(), n.msgBus, common.GetLogger(common.MODULE_TRAINER))
	return nil
}

func (n *TrainerNode) Start() (*trainer.Result, error) {
	if n.trainer == nil {
		return nil, errors.New("node is not initialized")
	}

	res, err := n.trainer.Run(n.data)
	if err != nil {
		return nil, err
	}

	if n.observer != nil {
		if err := n.observer.WriteTextfile(n.conf.Metrics.Textfile); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (n *TrainerNode) Close() error {
	if n.msgBus != nil {
		n.msgBus.Reset()
	}
	if n.history != nil {
		err := n.history.Close()
		n.history = nil
		return err
	}
	return nil
}
