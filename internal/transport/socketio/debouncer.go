package socketio

import (
	"sync"
	"time"
)

// QueueDebouncer collapses bursts of MPD playlist events into a single
// queue broadcast. A shuffle issues one move per album, so without it
// every client would receive one push per move.
type QueueDebouncer struct {
	window   time.Duration
	callback func()

	mu      sync.Mutex
	pending bool
	timer   *time.Timer
	stopped bool
}

// NewQueueDebouncer creates a debouncer with the given window duration.
func NewQueueDebouncer(window time.Duration, callback func()) *QueueDebouncer {
	return &QueueDebouncer{
		window:   window,
		callback: callback,
	}
}

// Trigger records that the given MPD subsystem has changed. Only the
// playlist subsystem schedules a broadcast; the callback fires once the
// window elapses without further playlist events.
func (d *QueueDebouncer) Trigger(subsystem string) {
	if subsystem != "playlist" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *QueueDebouncer) flush() {
	d.mu.Lock()
	fire := d.pending && !d.stopped
	d.pending = false
	d.mu.Unlock()

	if fire && d.callback != nil {
		d.callback()
	}
}

// Stop prevents any further callbacks from firing.
func (d *QueueDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
