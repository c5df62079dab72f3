// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestChannelReporterDeliversEventsInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	reporter := NewChannelReporter(8)

	var (
		mu       sync.Mutex
		received []Event
	)

	reporter.Listen(listenerFunc(func(event Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
	}))

	for i := 1; i <= 5; i++ {
		reporter.Report(Event{
			TaskID: 1,
			Type:   EventLine,
			Data:   EventData{Sequence: uint64(i)},
		})
	}

	reporter.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 5, "all reported events should be delivered")

	for i, event := range received {
		assert.Equal(t, uint64(i+1), event.Data.Sequence, "events should arrive in report order")
	}
}

func TestChannelReporterBlocksWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	reporter := NewChannelReporter(1)

	// Fill the buffer.
	reporter.Report(Event{Type: EventLine, Data: EventData{Sequence: 1}})

	delivered := make(chan struct{})

	go func() {
		// This send blocks until the consumer drains the first event.
		reporter.Report(Event{Type: EventLine, Data: EventData{Sequence: 2}})
		close(delivered)
	}()

	select {
	case <-delivered:
		t.Fatal("Report should block while the buffer is full")
	case <-time.After(50 * time.Millisecond):
	}

	first := <-reporter.Events()
	assert.Equal(t, uint64(1), first.Data.Sequence)

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("Report should unblock once the buffer has room")
	}

	second := <-reporter.Events()
	assert.Equal(t, uint64(2), second.Data.Sequence)

	reporter.Close()
}

func TestChannelReporterCloseIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	reporter := NewChannelReporter(1)
	reporter.Listen(listenerFunc(func(Event) {}))

	reporter.Close()
	reporter.Close()
}

func TestChannelReporterCloseDrainsPendingEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	reporter := NewChannelReporter(16)

	var (
		mu    sync.Mutex
		count int
	)

	reporter.Listen(listenerFunc(func(Event) {
		mu.Lock()
		defer mu.Unlock()
		count++
	}))

	for i := 0; i < 10; i++ {
		reporter.Report(Event{Type: EventLine})
	}

	reporter.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, count, "Close should wait for the listener to drain buffered events")
}

func TestChannelReporterMultipleListeners(t *testing.T) {
	defer goleak.VerifyNone(t)

	reporter := NewChannelReporter(4)

	var (
		mu    sync.Mutex
		total int
	)

	count := func(Event) {
		mu.Lock()
		defer mu.Unlock()
		total++
	}

	// Two listeners share the channel; each event goes to exactly one.
	reporter.Listen(listenerFunc(count))
	reporter.Listen(listenerFunc(count))

	for i := 0; i < 6; i++ {
		reporter.Report(Event{Type: EventLine})
	}

	reporter.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 6, total, "every event should be consumed exactly once")
}

// listenerFunc adapts a function to the Listener interface.
type listenerFunc func(Event)

func (f listenerFunc) OnEvent(event Event) {
	f(event)
}
