package ui

import (
	"context"
	"testing"
	"time"
)

func TestPostOverflowStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewModel(Options{Context: ctx})
	t.Cleanup(m.Close)
	for range inboxSize {
		m.post(viewChangedMsg{})
	}

	m.post(viewChangedMsg{})
	cancel()

	done := make(chan struct{})
	go func() {
		m.overflow.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected the overflow send to give up after the context ended")
	}
	if got := len(m.inbox); got != inboxSize {
		t.Fatalf("expected the inbox to stay at %d messages, got %d", inboxSize, got)
	}
}

func TestPostOverflowDeliversWhenDrained(t *testing.T) {
	m := NewModel(Options{})
	t.Cleanup(m.Close)
	for range inboxSize {
		m.post(viewChangedMsg{})
	}
	m.post(panelReloadedMsg{index: 1})

	for range inboxSize {
		<-m.inbox
	}
	select {
	case msg := <-m.inbox:
		if _, ok := msg.(panelReloadedMsg); !ok {
			t.Fatalf("expected the overflowed message, got %T", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected the overflowed message to be delivered")
	}
}
