// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReadsLocalFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "ghop.yml", []byte("build:\n  - echo hi\n"), 0o644))

	stubs := gostub.Stub(&FS, fs)
	defer stubs.Reset()

	data, err := Fetch(context.Background(), "ghop.yml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "echo hi")
}

func TestLoadParsesLocalFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := []byte(`
build:
  - echo compiling
  - command: echo testing
    timeout: 5
`)
	require.NoError(t, afero.WriteFile(fs, "sets/ghop.yml", content, 0o644))

	stubs := gostub.Stub(&FS, fs)
	defer stubs.Reset()

	specs, err := Load(context.Background(), "sets/ghop.yml", "build")
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "echo compiling", specs[0].Command)
	assert.Equal(t, "echo testing", specs[1].Command)
}

func TestLoadMissingFile(t *testing.T) {
	stubs := gostub.Stub(&FS, afero.NewMemMapFs())
	defer stubs.Reset()

	missing := filepath.Join(t.TempDir(), "absent.yml")

	_, err := Load(context.Background(), missing, "build")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadConfigFile)
	assert.Contains(t, err.Error(), "absent.yml")
}

func TestLoadSurfacesParseErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.yml", []byte("not: [valid"), 0o644))

	stubs := gostub.Stub(&FS, fs)
	defer stubs.Reset()

	_, err := Load(context.Background(), "bad.yml", "build")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParseConfig)
}

func TestSplitFileFromGetterURL(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		expectedDir  string
		expectedFile string
	}{
		{
			name:         "git url with subpath and ref",
			url:          "git::https://example.com/repo//configs/ghop.yml?ref=v1.0.0",
			expectedDir:  "git::https://example.com/repo//configs?ref=v1.0.0",
			expectedFile: "ghop.yml",
		},
		{
			name:         "git url with file at subpath root",
			url:          "git::ssh://git@example.com/repo//ghop.yml",
			expectedDir:  "git::ssh://git@example.com/repo",
			expectedFile: "ghop.yml",
		},
		{
			name:         "too few parts",
			url:          "https://example.com/ghop.yml",
			expectedDir:  "",
			expectedFile: "",
		},
		{
			name:         "trailing slash has no file",
			url:          "git::https://example.com/repo//configs/",
			expectedDir:  "",
			expectedFile: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, file := splitFileFromGetterURL(tt.url)
			assert.Equal(t, tt.expectedDir, dir)
			assert.Equal(t, tt.expectedFile, file)
		})
	}
}
