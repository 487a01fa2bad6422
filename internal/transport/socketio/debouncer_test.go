package socketio

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerRapidPlaylistEventsCollapseToOne(t *testing.T) {
	var calls int32

	d := NewQueueDebouncer(50*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	defer d.Stop()

	// One playlist event per album moved
	for i := 0; i < 12; i++ {
		d.Trigger("playlist")
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 queue callback, got %d", got)
	}
}

func TestDebouncerIgnoresOtherSubsystems(t *testing.T) {
	var calls int32

	d := NewQueueDebouncer(20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	defer d.Stop()

	d.Trigger("player")
	d.Trigger("mixer")
	d.Trigger("options")

	time.Sleep(80 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("expected no callbacks, got %d", got)
	}
}

func TestDebouncerSeparateBursts(t *testing.T) {
	var calls int32

	d := NewQueueDebouncer(20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	defer d.Stop()

	d.Trigger("playlist")
	time.Sleep(100 * time.Millisecond)
	d.Trigger("playlist")
	time.Sleep(100 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 callbacks for separate bursts, got %d", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	var calls int32

	d := NewQueueDebouncer(50*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })

	d.Trigger("playlist")
	d.Stop()
	d.Trigger("playlist")

	time.Sleep(120 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("expected no callbacks after Stop, got %d", got)
	}
}
