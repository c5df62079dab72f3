// Copyright (c) ghopnik 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/spf13/afero"

	"github.com/ghopnik/ghop/internal/ctxlog"
	"github.com/ghopnik/ghop/internal/runset"
)

const (
	getterPathSeparator = "//"
	getterRefSeparator  = "?"
	minimumGetterParts  = 3 // scheme, host and path
)

// Load fetches the config from a local path or go-getter URL and extracts
// the named set.
func Load(ctx context.Context, pathOrURL, name string) ([]runset.TaskSpec, error) {
	data, err := Fetch(ctx, pathOrURL)
	if err != nil {
		return nil, err
	}

	return Parse(data, pathOrURL, name)
}

// Fetch reads the config content. Local paths are read through FS; anything
// else goes through go-getter, which understands git, http, s3 and friends.
func Fetch(ctx context.Context, pathOrURL string) ([]byte, error) {
	if ok, _ := afero.Exists(FS, pathOrURL); ok {
		data, err := afero.ReadFile(FS, pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrReadConfigFile, pathOrURL, err)
		}

		return data, nil
	}

	ctxlog.Debug(ctx, "config not found locally, trying go-getter", "url", pathOrURL)

	data, err := fetchRemote(ctx, pathOrURL)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrReadConfigFile, pathOrURL, err)
	}

	return data, nil
}

// fetchRemote downloads the file with go-getter. Getter sources address
// directories, so the file name is split off and the surrounding directory
// fetched instead (https://github.com/hashicorp/go-getter/issues/98).
func fetchRemote(ctx context.Context, rawURL string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "ghop-getter-*")
	if err != nil {
		return nil, err
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     rawURL,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string

	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, err
		}

		dirURL, name := splitFileFromGetterURL(rawURL)
		if dirURL == "" || name == "" {
			return nil, fmt.Errorf("invalid getter URL format: %s", rawURL)
		}

		req.Src = dirURL
		fileName = name
	}

	if fileName == "" {
		req.Src = filepath.Dir(rawURL)
		fileName = filepath.Base(rawURL)
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, err
	}

	return data, nil
}

// splitFileFromGetterURL splits a getter URL into its directory part and the
// file name, re-attaching any ref query to the directory URL.
func splitFileFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, getterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]
	if strings.Contains(last, getterRefSeparator) {
		refSplit := strings.Split(last, getterRefSeparator)
		if len(refSplit) > 1 {
			ref = strings.Join(refSplit[1:], "")
		}

		last = refSplit[0]
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)
	parts[len(parts)-1] = filepath.Dir(last)

	if parts[len(parts)-1] == "." {
		parts = parts[:len(parts)-1]
	}

	dirURL := strings.Join(parts, getterPathSeparator)

	if ref != "" {
		dirURL += getterRefSeparator + ref
	}

	return dirURL, fileName
}
