// Package audioio provides the external audio-device and file
// collaborators the core pipeline is agnostic to: a sample producer
// interface, a bounded single-producer/single-consumer queue, live
// capture via PortAudio, and WAV dump writing.
package audioio

import "context"

// Queue is a bounded single-producer/single-consumer queue of owned
// sample buffers. It is a thin wrapper around a buffered channel: no
// locks, no atomics, matching the core's "no locks, no atomics"
// resource model (a channel's internal synchronization is the Go
// runtime's concern, not this package's).
type Queue[T any] struct {
	ch chan T
}

// NewQueue creates a queue with the given capacity (10 in the reference
// configuration).
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Push enqueues an item, blocking if the queue is full or returning ctx's
// error if it is cancelled first.
func (q *Queue[T]) Push(ctx context.Context, item T) error {
	select {
	case q.ch <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPush enqueues an item without blocking, reporting whether there was
// room.
func (q *Queue[T]) TryPush(item T) bool {
	select {
	case q.ch <- item:
		return true
	default:
		return false
	}
}

// Pop dequeues the next item, blocking until one is available or ctx is
// cancelled.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	select {
	case item := <-q.ch:
		return item, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close closes the underlying channel; further Push calls will panic,
// matching ordinary Go channel semantics. Callers stop producing before
// calling Close.
func (q *Queue[T]) Close() {
	close(q.ch)
}
