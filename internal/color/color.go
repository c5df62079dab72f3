// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"

	prefix    = "\033["
	suffix    = "m"
	sbPadding = 16 // extra room for the code digits in the strings.Builder
)

// Code represents an ANSI control code for text formatting.
type Code int

// Control codes for text formatting.
const (
	Reset Code = iota
	Bold
	Faint
	Italic
	Underline
)

// Foreground text colors.
const (
	FgBlack Code = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Foreground hi-intensity text colors.
const (
	FgHiBlack Code = iota + 90
	FgHiRed
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

var enabled bool

func init() {
	enabled = isColorEnabled()
}

// Colorize returns str wrapped in the escape sequence for the given codes.
// It appends the reset code at the end of the string to reset the color.
func Colorize(str string, colorCodes ...Code) string {
	if !enabled {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + 2*(len(prefix)+len(suffix)) + sbPadding)
	writeSequence(&sb, colorCodes)
	sb.WriteString(str)
	writeSequence(&sb, []Code{Reset})

	return sb.String()
}

func writeSequence(sb *strings.Builder, codes []Code) {
	sb.WriteString(prefix)

	for i, code := range codes {
		if i > 0 {
			sb.WriteString(";")
		}

		sb.WriteString(strconv.Itoa(int(code)))
	}

	sb.WriteString(suffix)
}

// Enabled reports whether color output is enabled.
// It is initialized in package init().
//
// NO_COLOR always wins; otherwise FORCE_COLOR enables color even when stdout
// is not a terminal. With neither set, terminal detection via golang.org/x/term
// decides.
func Enabled() bool {
	return enabled
}

func isColorEnabled() bool {
	if nc := os.Getenv(NoColor); nc != "" {
		return false
	}

	if fc := os.Getenv(ForceColor); fc != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
