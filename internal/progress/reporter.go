// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"sync"
)

// ChannelReporter sends events over a Go channel. When the channel is full,
// Report blocks until the consumer catches up. A blocked Report stalls the
// task that produced the line, which in turn stalls the child process on
// its pipe, so no output is ever dropped. Session cancellation does not
// release blocked producers either; lines already read are always
// delivered.
//
// Callers must attach a consumer with Listen or drain Events before
// reporting, and must not call Report after Close.
type ChannelReporter struct {
	ch   chan Event
	wg   sync.WaitGroup
	once sync.Once
}

// NewChannelReporter creates a reporter that sends events over a channel
// with the given buffer size.
func NewChannelReporter(bufferSize int) *ChannelReporter {
	return &ChannelReporter{
		ch: make(chan Event, bufferSize),
	}
}

// Report implements Reporter.Report. It blocks when the buffer is full,
// releasing only when the consumer drains an event.
func (cr *ChannelReporter) Report(event Event) {
	cr.ch <- event
}

// Close implements Reporter.Close. It closes the event channel and waits
// for registered listeners to finish draining it.
func (cr *ChannelReporter) Close() {
	cr.once.Do(func() {
		close(cr.ch)
		cr.wg.Wait()
	})
}

// Listen starts a goroutine that forwards every event to the listener in
// report order. The goroutine exits once the reporter is closed and the
// buffer drained.
func (cr *ChannelReporter) Listen(listener Listener) {
	cr.wg.Add(1)

	go func() {
		defer cr.wg.Done()

		for event := range cr.ch {
			listener.OnEvent(event)
		}
	}()
}

// Events returns the event channel for direct consumption. Consumers using
// this channel must drain it until it is closed.
func (cr *ChannelReporter) Events() <-chan Event {
	return cr.ch
}
