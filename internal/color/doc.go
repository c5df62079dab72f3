// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color provides ANSI escape helpers for terminal text formatting.
// Whether color is emitted is decided once at startup: the NO_COLOR environment
// variable disables it, FORCE_COLOR enables it, and otherwise stdout is probed
// with golang.org/x/term. When color is disabled all helpers return their input
// unchanged.
package color
