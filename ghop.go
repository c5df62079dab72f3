// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ghop provides the version and commit information for the ghop application.
package ghop

var (
	// Version is set during the build process.
	Version = "dev"
	// Commit is set during the build process.
	Commit = "unknown"
)
