package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perceptron/common"
	"perceptron/core/ml"
	"perceptron/core/msgbus"
	"perceptron/core/trainer"
	"perceptron/test/mock"
)

func openStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "history.db"), mock.GetMockLogger("test"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RunAndEpochs(t *testing.T) {
	s := openStore(t)
	bus := msgbus.NewMessageBus()
	bus.Register(common.LocalTrainMsg, s)

	info := trainer.RunInfo{
		RunID:        "run-1",
		StartedAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		TrainingSize: 120,
		TestSize:     30,
		Epochs:       2,
		LearningRate: 0.001,
	}
	require.NoError(t, bus.Publish(info.RunID, common.LocalTrainMsg_RunStart, info))

	w := ml.DefaultWeights()
	reports := []trainer.EpochReport{
		{RunID: "run-1", Epoch: 0, Stats: ml.Stats{TrueNegatives: 20, FalseNegatives: 10, Accuracy: 20.0 / 30.0}, Weights: w},
		{RunID: "run-1", Epoch: 1, Stats: ml.Stats{TruePositives: 10, TrueNegatives: 20, Accuracy: 1}, Weights: ml.Weights{Bias: -0.4, Features: [4]float64{0.01, 0.02, -0.3, -0.2}}},
	}
	// stored out of order, read back in epoch order
	require.NoError(t, bus.Publish("run-1", common.LocalTrainMsg_Epoch, reports[1]))
	require.NoError(t, bus.Publish("run-1", common.LocalTrainMsg_Epoch, reports[0]))

	got, err := s.Epochs("run-1")
	require.NoError(t, err)
	assert.Equal(t, reports, got)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.Equal(t, 120, runs[0].TrainingSize)
	assert.True(t, info.StartedAt.Equal(runs[0].StartedAt))

	none, err := s.Epochs("other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_DuplicateRun(t *testing.T) {
	s := openStore(t)
	info := trainer.RunInfo{RunID: "dup", StartedAt: time.Now()}
	require.NoError(t, s.SaveRun(info))
	assert.Error(t, s.SaveRun(info))
}
