package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perceptron/common"
	"perceptron/core/ml"
	"perceptron/core/msgbus"
	"perceptron/core/trainer"
	"perceptron/test/mock"
)

func epoch(n int) trainer.EpochReport {
	return trainer.EpochReport{
		RunID:   "r1",
		Epoch:   n,
		Stats:   ml.Stats{TruePositives: 9, TrueNegatives: 11, FalsePositives: 6, FalseNegatives: 4, Accuracy: 20.0 / 30.0},
		Weights: ml.DefaultWeights(),
	}
}

func TestObserver_Epoch(t *testing.T) {
	o := NewObserver(mock.GetMockLogger("test"))
	bus := msgbus.NewMessageBus()
	bus.Register(common.LocalTrainMsg, o)

	require.NoError(t, bus.Publish("r1", common.LocalTrainMsg_Epoch, epoch(0)))
	require.NoError(t, bus.Publish("r1", common.LocalTrainMsg_Epoch, epoch(1)))
	require.NoError(t, bus.Publish("r1", common.LocalTrainMsg_RunFinish, trainer.Result{RunID: "r1"}))

	m := o.Metrics()
	assert.InDelta(t, 20.0/30.0, testutil.ToFloat64(m.Accuracy), 1e-12)
	assert.Equal(t, 9.0, testutil.ToFloat64(m.Confusion.WithLabelValues("tp")))
	assert.Equal(t, 11.0, testutil.ToFloat64(m.Confusion.WithLabelValues("TN")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.Confusion.WithLabelValues("FP")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Confusion.WithLabelValues("FN")))
	assert.Equal(t, -0.5, testutil.ToFloat64(m.Weight.WithLabelValues("bias")))
	assert.Equal(t, -0.2, testutil.ToFloat64(m.Weight.WithLabelValues("sepal_wid")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Epochs))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs))
}

func TestObserver_WriteTextfile(t *testing.T) {
	o := NewObserver(mock.GetMockLogger("test"))
	o.Observe(epoch(0))

	path := filepath.Join(t.TempDir(), "perceptron.prom")
	require.NoError(t, o.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `perceptron_confusion{outcome="tp"} 9`)
	assert.Contains(t, string(data), "perceptron_epochs_total 1")
}
