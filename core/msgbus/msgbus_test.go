package msgbus

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perceptron/common"
)

type recorder struct {
	name string
	log  *[]string
	err  error
}

func (r *recorder) HandleMsgFromMsgBus(msg *BusMessage) error {
	*r.log = append(*r.log, fmt.Sprintf("%s:%s:%v", r.name, msg.RunID, msg.Msg))
	return r.err
}

func TestMessageBus_Ordered(t *testing.T) {
	var got []string
	a := &recorder{name: "a", log: &got}
	b := &recorder{name: "b", log: &got}

	mb := NewMessageBus()
	mb.Register(common.LocalTrainMsg, a)
	mb.Register(common.LocalTrainMsg_Epoch, b)
	mb.Register(common.LocalTrainMsg, a)

	require.NoError(t, mb.Publish("run1", common.LocalTrainMsg_Epoch, 0))
	require.NoError(t, mb.Publish("run1", common.LocalTrainMsg_RunFinish, 1))

	assert.Equal(t, []string{"a:run1:0", "b:run1:0", "a:run1:1", "b:run1:1"}, got)
}

func TestMessageBus_UnRegister(t *testing.T) {
	var got []string
	a := &recorder{name: "a", log: &got}
	b := &recorder{name: "b", log: &got}

	mb := NewMessageBus()
	mb.Register(common.LocalTrainMsg, a)
	mb.Register(common.LocalTrainMsg, b)
	mb.UnRegister(common.LocalTrainMsg_Epoch, a)

	require.NoError(t, mb.Publish("r", common.LocalTrainMsg_Epoch, "x"))
	assert.Equal(t, []string{"b:r:x"}, got)

	mb.Reset()
	require.NoError(t, mb.Publish("r", common.LocalTrainMsg_Epoch, "y"))
	assert.Equal(t, []string{"b:r:x"}, got)
}

func TestMessageBus_SubscriberError(t *testing.T) {
	var got []string
	a := &recorder{name: "a", log: &got, err: fmt.Errorf("disk full")}
	b := &recorder{name: "b", log: &got}

	mb := NewMessageBus()
	mb.Register(common.LocalTrainMsg, a)
	mb.Register(common.LocalTrainMsg, b)

	err := mb.Publish("r", common.LocalTrainMsg_RunStart, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	// b is still served
	assert.Equal(t, []string{"a:r:1", "b:r:1"}, got)
}
