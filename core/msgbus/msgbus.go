package msgbus

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"perceptron/common"
)

type BusMessage struct {
	MsgType common.LocalMsgType
	RunID   string
	Msg     interface{}
}

type Subscriber interface {
	HandleMsgFromMsgBus(msg *BusMessage) error
}

// MessageBus delivers messages synchronously, in subscriber registration
// order, on the publisher's goroutine.
type MessageBus interface {
	Register(topic common.LocalMsgType, sub Subscriber)
	UnRegister(topic common.LocalMsgType, sub Subscriber)
	Publish(runID string, t common.LocalMsgType, payload interface{}) error
	Reset()
}

type Topic interface {
	Register(sub Subscriber)
	UnRegister(sub Subscriber)
	Publish(msg *BusMessage) error
}

type topicImpl struct {
	subs  atomic.Value //[]Subscriber
	mutex sync.Mutex
}

func newTopic() Topic {
	t := &topicImpl{}
	t.subs.Store([]Subscriber{})
	return t
}

func (t *topicImpl) Register(sub Subscriber) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	subs := t.subs.Load().([]Subscriber)
	// dedup
	for _, s := range subs {
		if s == sub {
			return
		}
	}
	newSubs := make([]Subscriber, 0, len(subs)+1)
	newSubs = append(newSubs, subs...)
	t.subs.Store(append(newSubs, sub))
}

func (t *topicImpl) UnRegister(sub Subscriber) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	subs := t.subs.Load().([]Subscriber)
	for i, s := range subs {
		if s == sub {
			newSubs := make([]Subscriber, 0, len(subs)-1)
			newSubs = append(newSubs, subs[:i]...)
			t.subs.Store(append(newSubs, subs[i+1:]...))
			return
		}
	}
}

// Publish hands msg to every subscriber; the first error is returned after
// all of them were served.
func (t *topicImpl) Publish(msg *BusMessage) error {
	var first error
	subs := t.subs.Load().([]Subscriber)
	for _, sub := range subs {
		if err := sub.HandleMsgFromMsgBus(msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type messageBusImpl struct {
	topics sync.Map //first class LocalMsgType -> Topic
}

func NewMessageBus() MessageBus {
	return &messageBusImpl{}
}

func (mb *messageBusImpl) Register(topic common.LocalMsgType, sub Subscriber) {
	firstClassTopic := topic.Type()
	v, _ := mb.topics.LoadOrStore(firstClassTopic, newTopic())
	v.(Topic).Register(sub)
}

func (mb *messageBusImpl) UnRegister(topic common.LocalMsgType, sub Subscriber) {
	firstClassTopic := topic.Type()
	v, ok := mb.topics.Load(firstClassTopic)
	if !ok {
		return
	}
	v.(Topic).UnRegister(sub)
}

func (mb *messageBusImpl) Publish(runID string, topic common.LocalMsgType, msg interface{}) error {
	firstClassTopic := topic.Type()
	v, ok := mb.topics.Load(firstClassTopic)
	if !ok {
		// nobody listens
		return nil
	}
	busMsg := &BusMessage{MsgType: topic, RunID: runID, Msg: msg}
	if err := v.(Topic).Publish(busMsg); err != nil {
		return errors.Wrapf(err, "topic[%#x] subscriber failed", uint32(topic))
	}
	return nil
}

func (mb *messageBusImpl) Reset() {
	mb.topics.Range(func(k, _ interface{}) bool {
		mb.topics.Delete(k)
		return true
	})
}
