package session

import (
	"sync"

	"github.com/alaaharoun/livetranslate-server/pkg/recognizer"
)

type engineSignal int

const (
	signalStarted engineSignal = iota + 1
	signalStartFailed
	signalEvent
)

type engineEvent struct {
	gen    uint64
	signal engineSignal
	event  recognizer.Event
	err    error
}

// mailbox queues engine callbacks for the controller loop. push never blocks.
type mailbox struct {
	mu     sync.Mutex
	queue  []engineEvent
	notify chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{notify: make(chan struct{}, 1)}
}

func (m *mailbox) push(ev engineEvent) {
	m.mu.Lock()
	m.queue = append(m.queue, ev)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *mailbox) drain() []engineEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.queue
	m.queue = nil
	return out
}
