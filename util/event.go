package util

import (
	"context"
	"sync"
)

// Event is a one-shot signal. Notify may be called any number of times; only
// the first has an effect.
type Event struct {
	once sync.Once
	done chan struct{}
}

func NewEvent() *Event {
	return &Event{
		done: make(chan struct{}),
	}
}

func (e *Event) Notify() {
	e.once.Do(func() { close(e.done) })
}

// Done is closed once the event has been notified.
func (e *Event) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the event is notified or ctx ends.
func (e *Event) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Event) HasBeenNotified() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}
