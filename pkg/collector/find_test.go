package collector

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSource(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "LICENSE")
	write(t, file, "MIT")

	tests := []struct {
		name     string
		url      string
		expected string
		local    bool
	}{
		{name: "empty", url: "", local: false},
		{name: "remote", url: "https://www.apache.org/licenses/LICENSE-2.0.txt", local: false},
		{name: "file url", url: "file://" + filepath.ToSlash(file), expected: file, local: true},
		{name: "absolute path", url: file, expected: file, local: true},
		{name: "relative path", url: "LICENSE", expected: file, local: true},
		{name: "missing file", url: "NOTICE", local: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := localSource(tt.url, dir)
			assert.Equal(t, tt.local, ok)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestFindLicenseFile(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "b", "COPYING"), "GPL")
	write(t, filepath.Join(dir, "a", "LICENSE.md"), "MIT")
	write(t, filepath.Join(dir, "README"), "readme")

	found, err := findLicenseFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", "LICENSE.md"), found)

	_, err = findLicenseFile(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoLicenseFileFound))
}

func TestCacheFileName(t *testing.T) {
	tests := []struct {
		name     string
		license  string
		ext      string
		expected string
	}{
		{name: "spdx id", license: "Apache-2.0", ext: ".txt", expected: "apache-2.0.txt"},
		{name: "long name", license: "Apache License, Version 2.0", ext: ".txt", expected: "apache-license-version-2.0.txt"},
		{name: "slashes", license: "GPL/LGPL (dual)", ext: ".html", expected: "gpl-lgpl-dual.html"},
		{name: "empty", license: "", ext: ".pdf", expected: "license.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cacheFileName(tt.license, tt.ext))
		})
	}
}

func TestUniqueName(t *testing.T) {
	taken := map[string]string{"mit.txt": "x", "mit-2.txt": "y"}
	assert.Equal(t, "apache.txt", uniqueName("apache.txt", taken))
	assert.Equal(t, "mit-3.txt", uniqueName("mit.txt", taken))
}

func TestHighestConfidence(t *testing.T) {
	tests := []struct {
		name       string
		candidates []candidate
		expected   string
	}{
		{
			name: "highest wins",
			candidates: []candidate{
				{path: "/m/LICENSE", license: "MIT", confidence: 0.8},
				{path: "/m/LICENSE", license: "CC-BY-4.0", confidence: 0.99},
				{path: "/m/LICENSE", license: "BSD-3-Clause", confidence: 0.9},
			},
			expected: "CC-BY-4.0",
		},
		{
			name: "later match wins a tie",
			candidates: []candidate{
				{path: "/m/LICENSE", license: "MIT", confidence: 0.95},
				{path: "/m/LICENSE", license: "X11", confidence: 0.95},
			},
			expected: "X11",
		},
		{
			name:     "no candidates",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, highestConfidence(tt.candidates).license)
		})
	}
}

func TestLicenseType(t *testing.T) {
	assert.Equal(t, "", licenseType(""))
	assert.Equal(t, "notice", licenseType("MIT"))
	assert.Equal(t, "notice", licenseType("0BSD"))
	assert.Equal(t, "unknown", licenseType("Some Vendor License"))
	assert.Equal(t, "LGPL-3.0", licenseName("deprecated_LGPL-3.0+"))
}
