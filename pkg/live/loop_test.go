package live

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoopRunsInOrder(t *testing.T) {
	l := NewLoop(8, discardLogger())
	go l.Run()
	defer l.Close()

	got := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		i := i
		if !l.Dispatch(func() { got <- i }) {
			t.Fatalf("Dispatch(%d) = false", i)
		}
	}

	for want := 1; want <= 3; want++ {
		select {
		case v := <-got:
			if v != want {
				t.Fatalf("got %d, want %d", v, want)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for dispatch")
		}
	}
}

func TestLoopDiscardsWhenFull(t *testing.T) {
	l := NewLoop(1, discardLogger())
	defer l.Close()

	if !l.Dispatch(func() {}) {
		t.Fatal("first Dispatch should be queued")
	}
	if l.Dispatch(func() {}) {
		t.Error("Dispatch on a full queue should report false")
	}
}

func TestLoopRecoversPanic(t *testing.T) {
	l := NewLoop(4, discardLogger())
	go l.Run()
	defer l.Close()

	done := make(chan struct{})
	l.Dispatch(func() { panic("boom") })
	l.Dispatch(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop stopped after a panic")
	}
}

func TestLoopClose(t *testing.T) {
	l := NewLoop(4, discardLogger())
	l.Close()
	l.Close()

	select {
	case <-l.Done():
	default:
		t.Fatal("Done not closed")
	}
	if l.Dispatch(func() {}) {
		t.Error("Dispatch after Close should report false")
	}
}

func TestLoopScheduler(t *testing.T) {
	l := NewLoop(4, discardLogger())
	go l.Run()
	defer l.Close()

	var fired atomic.Int32
	done := make(chan struct{})
	l.Scheduler().AfterFunc(time.Millisecond, func() {
		fired.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled callback never ran")
	}

	cancel := l.Scheduler().AfterFunc(time.Hour, func() { fired.Add(1) })
	cancel()
	if got := fired.Load(); got != 1 {
		t.Errorf("fired = %d, want 1", got)
	}
}

func TestLoopSchedulerWaitsForFullQueue(t *testing.T) {
	l := NewLoop(1, discardLogger())
	defer l.Close()

	if !l.Dispatch(func() {}) {
		t.Fatal("Dispatch should fill the queue")
	}
	done := make(chan struct{})
	l.Scheduler().AfterFunc(time.Millisecond, func() { close(done) })

	// Let the timer fire against the full queue before draining it.
	time.Sleep(20 * time.Millisecond)
	go l.Run()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer callback was dropped by a full queue")
	}
}

func TestLoopSchedulerStopsOnClose(t *testing.T) {
	l := NewLoop(1, discardLogger())
	l.Dispatch(func() {})

	ran := make(chan struct{}, 1)
	l.Scheduler().AfterFunc(time.Millisecond, func() { ran <- struct{}{} })
	time.Sleep(20 * time.Millisecond)
	l.Close()

	go l.Run()
	select {
	case <-ran:
		t.Error("callback ran after Close")
	case <-time.After(50 * time.Millisecond):
	}
}
