package sync

import (
	"testing"
	"time"
)

func TestRateWindowAllowsUpToMax(t *testing.T) {
	w := NewRateWindow(3)

	for i := 0; i < 3; i++ {
		if !w.Allow() {
			t.Fatalf("request %d should be allowed", i+1)
		}
		w.Record()
	}

	if w.Allow() {
		t.Error("request beyond the window max should be denied")
	}
}

func TestRateWindowSlides(t *testing.T) {
	current := time.Now()
	w := NewRateWindow(2)
	w.now = func() time.Time { return current }

	w.Record()
	w.Record()
	if w.Allow() {
		t.Fatal("window should be full")
	}

	// One second past the trailing minute, both stamps expire
	current = current.Add(windowSpan + time.Second)
	if !w.Allow() {
		t.Error("expired stamps should free the window")
	}
}

func TestRateWindowPartialExpiry(t *testing.T) {
	current := time.Now()
	w := NewRateWindow(2)
	w.now = func() time.Time { return current }

	w.Record()
	current = current.Add(40 * time.Second)
	w.Record()
	if w.Allow() {
		t.Fatal("window should be full")
	}

	// First stamp ages out, second is still inside the window
	current = current.Add(30 * time.Second)
	if !w.Allow() {
		t.Error("one slot should be free after the oldest stamp expired")
	}
	w.Record()
	if w.Allow() {
		t.Error("window should be full again")
	}
}
