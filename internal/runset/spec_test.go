// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecsFromCommands(t *testing.T) {
	specs := SpecsFromCommands([]string{"echo one", "echo two"})

	require.Len(t, specs, 2)
	assert.Equal(t, 1, specs[0].ID, "task IDs should start at one")
	assert.Equal(t, "echo one", specs[0].Command)
	assert.Equal(t, 2, specs[1].ID)
	assert.Equal(t, "echo two", specs[1].Command)
	assert.Zero(t, specs[0].Timeout, "raw commands carry no timeout")
}

func TestSpecsFromCommandsEmpty(t *testing.T) {
	assert.Empty(t, SpecsFromCommands(nil))
	assert.Empty(t, SpecsFromCommands([]string{}))
}
