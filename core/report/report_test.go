package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perceptron/common"
	"perceptron/core/ml"
	"perceptron/core/msgbus"
	"perceptron/core/trainer"
	"perceptron/test/mock"
)

func TestReporter_Epoch(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, mock.GetMockLogger("test"))

	report := trainer.EpochReport{
		RunID: "r1",
		Epoch: 3,
		Stats: ml.Stats{TruePositives: 9, TrueNegatives: 11, FalsePositives: 6, FalseNegatives: 4, Accuracy: 20.0 / 30.0},
	}
	require.NoError(t, r.HandleMsgFromMsgBus(&msgbus.BusMessage{
		MsgType: common.LocalTrainMsg_Epoch, RunID: "r1", Msg: report}))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Epoch 3\n"))
	assert.True(t, strings.HasSuffix(text, "Accuracy: 0.666667\n"))

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"P", "N"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"T", "9", "11"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"F", "6", "4"}, strings.Fields(lines[3]))
	assert.NotContains(t, text, "|")
	assert.NotContains(t, text, "+-")
}

func TestReporter_RunMessages(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, mock.GetMockLogger("test"))

	require.NoError(t, r.HandleMsgFromMsgBus(&msgbus.BusMessage{
		MsgType: common.LocalTrainMsg_RunStart,
		Msg:     trainer.RunInfo{RunID: "r1", Epochs: 20, LearningRate: 0.001},
	}))
	require.NoError(t, r.HandleMsgFromMsgBus(&msgbus.BusMessage{
		MsgType: common.LocalTrainMsg_RunFinish,
		Msg:     trainer.Result{RunID: "r1", Final: ml.DefaultWeights()},
	}))

	assert.Contains(t, out.String(), "Run r1: 20 epochs, learning rate 0.001")
	assert.Contains(t, out.String(), "Final weights: bias=-0.500000")
}

func TestReporter_BadPayload(t *testing.T) {
	r := NewReporter(&bytes.Buffer{}, mock.GetMockLogger("test"))
	err := r.HandleMsgFromMsgBus(&msgbus.BusMessage{MsgType: common.LocalTrainMsg_Epoch, Msg: 42})
	assert.Error(t, err)
}
