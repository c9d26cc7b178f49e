package collector

import (
	"errors"
	"path/filepath"
	"testing"

	classifier "github.com/google/licenseclassifier/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const mitText = `MIT License

Copyright (c) 2020 Example Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`

func TestConfigFromViper(t *testing.T) {
	defer viper.Reset()
	viper.Set("cache-dir", "target/licenses")
	viper.Set("encoding", "ISO-8859-1")
	viper.Set("force", true)
	viper.Set("confidence", 0.8)

	assert.Equal(t, Config{
		CacheDir:   "target/licenses",
		Encoding:   "ISO-8859-1",
		Force:      true,
		Confidence: 0.8,
	}, ConfigFromViper())
}

func TestInitDefaultIdentifier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "LICENSE")
	write(t, path, mitText)

	s := &State{}
	require.NoError(t, s.Init(Config{CacheDir: dir, Encoding: "UTF-8", Confidence: 0.9}))
	defer s.Cleanup()
	require.NotNil(t, s.Log)
	require.NotNil(t, s.identifier)

	name, err := s.identifier.Identify(path)
	require.NoError(t, err)
	assert.Equal(t, "MIT", name)

	_, err = s.identifier.Identify(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, ErrNoLicenseFound))
}

func TestInitLicenseDatabase(t *testing.T) {
	db := t.TempDir()
	write(t, filepath.Join(db, "MIT.txt"), mitText)
	path := filepath.Join(t.TempDir(), "COPYING")
	write(t, path, mitText)

	s := &State{}
	require.NoError(t, s.Init(Config{LicensesDir: db, Confidence: 0.8}))
	defer s.Cleanup()

	name, err := s.identifier.Identify(path)
	require.NoError(t, err)
	assert.Equal(t, "MIT", name)
}

func TestInitBrokenLicenseDatabase(t *testing.T) {
	file := filepath.Join(t.TempDir(), "licenses.tar.gz")
	write(t, file, "not a directory")

	tests := []struct {
		name          string
		licensesDir   string
		force         bool
		expectedError string
	}{
		{
			name:          "missing database explains the download",
			licensesDir:   filepath.Join(t.TempDir(), "licenses"),
			expectedError: "is missing, download it with",
		},
		{
			name:          "file instead of a directory",
			licensesDir:   file,
			expectedError: "not a directory",
		},
		{
			name:        "missing database with force",
			licensesDir: filepath.Join(t.TempDir(), "licenses"),
			force:       true,
		},
		{
			name:        "file instead of a directory with force",
			licensesDir: file,
			force:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			s := &State{Log: zap.New(core).Sugar()}

			err := s.Init(Config{LicensesDir: tt.licensesDir, Force: tt.force, Confidence: 0.9})
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Contains(t, err.Error(), tt.licensesDir)
				return
			}

			require.NoError(t, err)
			assert.Nil(t, s.identifier)
			warnings := logs.FilterMessageSnippet("license identification disabled").All()
			require.Len(t, warnings, 1)
			assert.Equal(t, zap.WarnLevel, warnings[0].Level)
		})
	}
}

func TestDatabaseIdentifierNoMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LICENSE")
	write(t, path, mitText)

	d := &databaseIdentifier{classifier: classifier.NewClassifier(0.9)}
	_, err := d.Identify(path)
	assert.True(t, errors.Is(err, ErrNoLicenseFound))
}
