package types

import (
	"sync"
)

// FIFO with unlimited capacity
// M send N recv, safe for concurrent use
// values sent before Close are still delivered
type Queue[T any] struct {
	data   []T
	closed bool
	mu     sync.Mutex
	// holds at most one pending wakeup, closed on Close
	readyCh chan struct{}
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		readyCh: make(chan struct{}, 1),
	}
}

// stops accepting values
// receivers drain what is left, then get ok == false
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.readyCh)
}

// return true on Send
// return false if closed and not Send
func (q *Queue[T]) Send(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.data = append(q.data, v)
	q.wake()
	return true
}

// blocks on empty to wait to receive
// return ok == false once closed and drained
func (q *Queue[T]) Recv() (v T, ok bool) {
	for {
		canRecv, v, ok := q.AttemptRecv()
		if canRecv || !ok {
			return v, ok
		}
		<-q.readyCh
	}
}

// return (false, zero, true) on empty
// return (true, v, true) on recv
// return (false, zero, false) on closed and drained
func (q *Queue[T]) AttemptRecv() (canRecv bool, v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return false, v, !q.closed
	}
	v = q.data[0]
	var zero T
	q.data[0] = zero
	q.data = q.data[1:]
	if len(q.data) > 0 {
		q.wake()
	}
	return true, v, true
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}

// must hold mu
func (q *Queue[T]) wake() {
	if q.closed {
		return
	}
	select {
	case q.readyCh <- struct{}{}:
	default:
	}
}
