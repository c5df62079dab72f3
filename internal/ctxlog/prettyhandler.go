// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/TylerBrock/colorjson"

	"github.com/ghopnik/ghop/internal/color"
)

var (
	// ErrFormatAttrs is returned when record attributes cannot be rendered.
	ErrFormatAttrs = errors.New("failed to format log attributes")
	// ErrWriteOutput is returned when the destination writer fails.
	ErrWriteOutput = errors.New("failed to write log output")
)

// timeFormat keeps records narrow; session logs share the terminal with
// labelled task output.
const timeFormat = "15:04:05.000"

// PrettyHandler renders slog records as single console lines: a dim
// timestamp, a level badge, the message, then any attributes as compact
// JSON. Attribute collection is delegated to an inner JSON handler so that
// WithAttrs, WithGroup and ReplaceAttr behave exactly as slog defines them.
type PrettyHandler struct {
	inner     slog.Handler
	buf       *bytes.Buffer
	mu        *sync.Mutex
	out       io.Writer
	formatter *colorjson.Formatter
	colored   bool
}

// NewPrettyHandler creates a console handler. Level, AddSource and
// ReplaceAttr from opts are honored for attributes; the time, level and
// message renderings are fixed.
func NewPrettyHandler(opts *slog.HandlerOptions, options ...Option) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	buf := &bytes.Buffer{}
	h := &PrettyHandler{
		buf: buf,
		inner: slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level:       opts.Level,
			AddSource:   opts.AddSource,
			ReplaceAttr: stripBuiltinKeys(opts.ReplaceAttr),
		}),
		mu:  &sync.Mutex{},
		out: io.Discard,
	}

	for _, opt := range options {
		opt(h)
	}

	h.formatter = colorjson.NewFormatter()
	h.formatter.DisabledColor = !h.colored

	return h
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler. The clone shares the buffer and mutex
// with its parent.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)

	return &clone
}

// WithGroup implements slog.Handler. The clone shares the buffer and mutex
// with its parent.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)

	return &clone
}

// Handle renders the record and writes it as one line.
func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs, err := h.recordAttrs(ctx, r)
	if err != nil {
		return err
	}

	line := strings.Builder{}
	line.WriteString(h.paint(r.Time.Format(timeFormat), color.FgHiBlack))
	line.WriteString(" ")
	line.WriteString(h.levelBadge(r.Level))
	line.WriteString(" ")
	line.WriteString(h.paint(r.Message, color.FgHiWhite))

	if len(attrs) > 0 {
		rendered, err := h.formatter.Marshal(attrs)
		if err != nil {
			return errors.Join(ErrFormatAttrs, err)
		}

		line.WriteString(" ")
		line.WriteString(string(rendered))
	}

	line.WriteString("\n")

	if _, err := io.WriteString(h.out, line.String()); err != nil {
		return errors.Join(ErrWriteOutput, err)
	}

	return nil
}

// recordAttrs round-trips the record through the inner JSON handler to pick
// up attribute handling without reimplementing any of it.
func (h *PrettyHandler) recordAttrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.mu.Lock()
	defer func() {
		h.buf.Reset()
		h.mu.Unlock()
	}()

	if err := h.inner.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("inner handler failed: %w", err)
	}

	var attrs map[string]any
	if err := json.Unmarshal(h.buf.Bytes(), &attrs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormatAttrs, err)
	}

	return attrs, nil
}

func (h *PrettyHandler) levelBadge(level slog.Level) string {
	badge := level.String() + ":"

	switch {
	case level < slog.LevelInfo:
		return h.paint(badge, color.FgHiBlack)
	case level < slog.LevelWarn:
		return h.paint(badge, color.FgCyan)
	case level < slog.LevelError:
		return h.paint(badge, color.FgYellow)
	default:
		return h.paint(badge, color.FgRed)
	}
}

func (h *PrettyHandler) paint(s string, c color.Code) string {
	if !h.colored {
		return s
	}

	return color.Colorize(s, c)
}

// stripBuiltinKeys drops the top-level time, level and message keys from the
// inner handler's output so only real attributes remain, then chains any
// user ReplaceAttr.
func stripBuiltinKeys(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 {
			switch a.Key {
			case slog.TimeKey, slog.LevelKey, slog.MessageKey:
				return slog.Attr{}
			}
		}

		if next == nil {
			return a
		}

		return next(groups, a)
	}
}

// Option configures a PrettyHandler.
type Option func(h *PrettyHandler)

// WithDestinationWriter sets where rendered lines go. The default discards
// them.
func WithDestinationWriter(w io.Writer) Option {
	return func(h *PrettyHandler) {
		h.out = w
	}
}

// WithAutoColour enables color when the process is attached to a terminal,
// honoring NO_COLOR and FORCE_COLOR.
func WithAutoColour() Option {
	return func(h *PrettyHandler) {
		h.colored = color.Enabled()
	}
}
