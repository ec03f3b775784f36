package hci

import (
	"sync"
	"time"

	"github.com/golang-collections/go-datastructures/queue"
)

const mailboxHint = 64

// mailbox is an unbounded FIFO filled by the receive goroutine. Consumers
// are serialized by mu. Items popped while waiting for a different item
// are parked in deferred and handed out first, in arrival order.
type mailbox struct {
	mu       sync.Mutex
	q        *queue.Queue
	deferred []interface{}
}

func newMailbox() *mailbox {
	return &mailbox{q: queue.New(mailboxHint)}
}

func (m *mailbox) put(v interface{}) error {
	return m.q.Put(v)
}

func (m *mailbox) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deferred) + int(m.q.Len())
}

// pop returns the oldest item without blocking.
func (m *mailbox) pop() (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.deferred) > 0 {
		v := m.deferred[0]
		m.deferred = m.deferred[1:]
		return v, true
	}
	return m.next()
}

// next pulls one item off the queue. Get blocks on an empty queue, so the
// emptiness check has to come first; only the producer adds items.
func (m *mailbox) next() (interface{}, bool) {
	if m.q.Empty() {
		return nil, false
	}
	items, err := m.q.Get(1)
	if err != nil || len(items) == 0 {
		return nil, false
	}
	return items[0], true
}

// take waits up to timeout for the first item satisfying match, checking
// every interval. A zero timeout checks once.
func (m *mailbox) take(match func(interface{}) bool, timeout, interval time.Duration) (interface{}, bool) {
	deadline := time.Now().Add(timeout)
	for {
		if v, ok := m.find(match); ok {
			return v, true
		}
		if !time.Now().Before(deadline) {
			return nil, false
		}
		time.Sleep(interval)
	}
}

func (m *mailbox) find(match func(interface{}) bool) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, v := range m.deferred {
		if match(v) {
			m.deferred = append(m.deferred[:i:i], m.deferred[i+1:]...)
			return v, true
		}
	}
	for {
		v, ok := m.next()
		if !ok {
			return nil, false
		}
		if match(v) {
			return v, true
		}
		m.deferred = append(m.deferred, v)
	}
}

func (m *mailbox) dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.q.Dispose()
	m.deferred = nil
}
