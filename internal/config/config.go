// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads named command sets from YAML files. A file either
// maps set names to entry lists directly or nests that mapping under a
// sets key. Entries are bare command strings or mappings with per-task
// options such as a timeout.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/ghopnik/ghop/internal/runset"
)

// FS is the filesystem used for local config access. Tests substitute a
// memory-backed filesystem.
var FS = afero.NewOsFs()

// DefaultFileName is the config file consulted when a single argument names
// a set instead of a command.
const DefaultFileName = "ghop.yml"

// Static errors for config loading.
var (
	// ErrReadConfigFile indicates the config file could not be read or fetched.
	ErrReadConfigFile = errors.New("failed to read config file")
	// ErrParseConfig indicates the file content is not valid YAML in either layout.
	ErrParseConfig = errors.New("failed to parse YAML")
	// ErrSetNotFound indicates the requested set does not exist in the file.
	ErrSetNotFound = errors.New("set not found")
	// ErrEmptySet indicates the requested set contains no commands.
	ErrEmptySet = errors.New("set is empty")
)

// Entry is one command inside a set. In YAML it is either a bare string or
// a mapping with a command and optional per-task settings.
type Entry struct {
	// Command is the shell command line.
	Command string
	// Timeout is the per-task timeout in seconds. Zero means no timeout.
	Timeout int64
	// Env holds additional environment variables for the task.
	Env map[string]string
	// Cwd is the working directory for the task.
	Cwd string
}

// UnmarshalYAML accepts both entry forms.
func (e *Entry) UnmarshalYAML(data []byte) error {
	var command string
	if err := yaml.Unmarshal(data, &command); err == nil {
		if command == "" {
			return errors.New("entry has an empty command")
		}

		*e = Entry{Command: command}

		return nil
	}

	var full struct {
		Command string            `yaml:"command"`
		Timeout int64             `yaml:"timeout"`
		Env     map[string]string `yaml:"env"`
		Cwd     string            `yaml:"cwd"`
	}

	if err := yaml.Unmarshal(data, &full); err != nil {
		return err
	}

	if full.Command == "" {
		return errors.New("entry has an empty command")
	}

	if full.Timeout < 0 {
		return fmt.Errorf("entry has a negative timeout %d", full.Timeout)
	}

	*e = Entry{
		Command: full.Command,
		Timeout: full.Timeout,
		Env:     full.Env,
		Cwd:     full.Cwd,
	}

	return nil
}

// Parse extracts the named set from YAML content and converts its entries
// to task specs with IDs assigned in list order. The path only labels
// errors.
func Parse(data []byte, path, name string) ([]runset.TaskSpec, error) {
	sets, err := parseSets(data)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseConfig, path, err)
	}

	entries, ok := sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %q (available sets: %s)", ErrSetNotFound, name, path, availableSets(sets))
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q in %q", ErrEmptySet, name, path)
	}

	specs := make([]runset.TaskSpec, 0, len(entries))
	for i, entry := range entries {
		specs = append(specs, runset.TaskSpec{
			ID:      i + 1,
			Command: entry.Command,
			Timeout: time.Duration(entry.Timeout) * time.Second,
			Env:     entry.Env,
			Cwd:     entry.Cwd,
		})
	}

	return specs, nil
}

// parseSets accepts both layouts. The flat mapping is tried first; when the
// document parses flat, set lookup happens there even if a sets key exists.
// The wrapper layout is only consulted when the flat parse fails.
func parseSets(data []byte) (map[string][]Entry, error) {
	var flat map[string][]Entry
	if err := yaml.Unmarshal(data, &flat); err == nil {
		return flat, nil
	}

	var wrapped struct {
		Sets map[string][]Entry `yaml:"sets"`
	}

	if err := yaml.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}

	if wrapped.Sets == nil {
		return nil, errors.New("no sets defined")
	}

	return wrapped.Sets, nil
}

func availableSets(sets map[string][]Entry) string {
	if len(sets) == 0 {
		return "<none>"
	}

	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}

	sort.Strings(names)

	return strings.Join(names, ", ")
}
