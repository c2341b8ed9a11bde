package metrics

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"perceptron/common"
	"perceptron/core/ml"
	"perceptron/core/msgbus"
	"perceptron/core/trainer"
)

const namespace = "perceptron"

type Prometheus struct {
	Accuracy  prometheus.Gauge
	Confusion *prometheus.GaugeVec
	Weight    *prometheus.GaugeVec
	Epochs    prometheus.Counter
	Runs      prometheus.Counter
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Accuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accuracy",
			Help:      "Accuracy of the last evaluation pass.",
		}),
		Confusion: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "confusion",
			Help:      "Confusion matrix counters of the last evaluation pass.",
		}, []string{"outcome"}),
		Weight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "weight",
			Help:      "Weights the last evaluation pass was taken with.",
		}, []string{"name"}),
		Epochs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "epochs_total",
			Help:      "Evaluation passes reported.",
		}),
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Training runs finished.",
		}),
	}
}

// Observer keeps the gauges current from epoch reports. It owns its registry
// so several observers can live in one process.
type Observer struct {
	registry   *prometheus.Registry
	prometheus Prometheus
	log        common.Logger
}

func NewObserver(log common.Logger) *Observer {
	o := &Observer{
		registry:   prometheus.NewRegistry(),
		prometheus: NewPrometheusMetrics(),
		log:        log,
	}
	o.registry.MustRegister(
		o.prometheus.Accuracy,
		o.prometheus.Confusion,
		o.prometheus.Weight,
		o.prometheus.Epochs,
		o.prometheus.Runs,
	)
	return o
}

func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

func (o *Observer) Metrics() Prometheus {
	return o.prometheus
}

func (o *Observer) HandleMsgFromMsgBus(msg *msgbus.BusMessage) error {
	switch msg.MsgType {
	case common.LocalTrainMsg_Epoch:
		report, ok := msg.Msg.(trainer.EpochReport)
		if !ok {
			return fmt.Errorf("unexpected payload %T for epoch", msg.Msg)
		}
		o.Observe(report)
	case common.LocalTrainMsg_RunFinish:
		o.prometheus.Runs.Inc()
	}
	return nil
}

func (o *Observer) Observe(report trainer.EpochReport) {
	s := report.Stats
	o.prometheus.Accuracy.Set(s.Accuracy)
	o.prometheus.Confusion.WithLabelValues(outcomeLabel(ml.TruePositive)).Set(float64(s.TruePositives))
	o.prometheus.Confusion.WithLabelValues(outcomeLabel(ml.TrueNegative)).Set(float64(s.TrueNegatives))
	o.prometheus.Confusion.WithLabelValues(outcomeLabel(ml.FalsePositive)).Set(float64(s.FalsePositives))
	o.prometheus.Confusion.WithLabelValues(outcomeLabel(ml.FalseNegative)).Set(float64(s.FalseNegatives))

	o.prometheus.Weight.WithLabelValues("bias").Set(report.Weights.Bias)
	for i, name := range ml.FeatureNames {
		o.prometheus.Weight.WithLabelValues(name).Set(report.Weights.Features[i])
	}
	o.prometheus.Epochs.Inc()
}

func outcomeLabel(o ml.Outcome) string {
	return strings.ToLower(o.String())
}

// WriteTextfile dumps the registry in the node exporter textfile format.
func (o *Observer) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, o.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", path)
	}
	o.log.Infof("metrics written to %s", path)
	return nil
}
