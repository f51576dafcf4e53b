package fs

import (
	"sync"
	"time"

	"github.com/aretw0/sticky/pkg/core"
)

// debouncer collapses bursts of events per key. An atomic write produces a
// create, a chmod and a rename in quick succession; consumers see one event
// carrying the latest type.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent
	stopped bool
	wg      sync.WaitGroup
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*pendingEvent),
	}
}

// add schedules fn for the event, replacing any pending event of the same key.
func (d *debouncer) add(e core.Event, fn func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if p, ok := d.pending[e.Key]; ok {
		if p.timer.Stop() {
			p.event = e
			p.timer.Reset(d.delay)
			return
		}
		// The timer already fired and its callback is waiting on the lock.
	}

	p := &pendingEvent{event: e}
	d.pending[e.Key] = p
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.pending[e.Key] == p {
			delete(d.pending, e.Key)
		}
		event, stopped := p.event, d.stopped
		d.mu.Unlock()
		if !stopped {
			fn(event)
		}
	})
}

// stopAndWait drops pending events and waits for running callbacks.
func (d *debouncer) stopAndWait(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	for key, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
