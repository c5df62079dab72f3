// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		name      string
		eventType EventType
		expected  string
	}{
		{
			name:      "task started",
			eventType: EventTaskStarted,
			expected:  "task-started",
		},
		{
			name:      "line",
			eventType: EventLine,
			expected:  "line",
		},
		{
			name:      "task finished",
			eventType: EventTaskFinished,
			expected:  "task-finished",
		},
		{
			name:      "session done",
			eventType: EventSessionDone,
			expected:  "session-done",
		},
		{
			name:      "unknown type",
			eventType: EventType(99),
			expected:  "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.eventType.String())
		})
	}
}

func TestStreamKindString(t *testing.T) {
	assert.Equal(t, "stdout", StreamStdout.String())
	assert.Equal(t, "stderr", StreamStderr.String())
}

func TestNullReporter(t *testing.T) {
	reporter := NewNullReporter()

	// Should not panic or block.
	reporter.Report(Event{
		TaskID: 1,
		Type:   EventLine,
		Data:   EventData{Line: "hello", Stream: StreamStdout},
	})
	reporter.Close()
	reporter.Close()
}
