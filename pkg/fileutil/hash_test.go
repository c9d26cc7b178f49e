package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sha1Pattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

func TestSHA1Hex(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	hello := filepath.Join(dir, "hello")
	helloCopy := filepath.Join(dir, "other-name")
	changed := filepath.Join(dir, "changed")
	writeFile(t, empty, "")
	writeFile(t, hello, "hello")
	writeFile(t, helloCopy, "hello")
	writeFile(t, changed, "hellp")

	sum, err := SHA1Hex(empty)
	require.NoError(t, err)
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", sum)

	sum, err = SHA1Hex(hello)
	require.NoError(t, err)
	assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", sum)
	assert.Regexp(t, sha1Pattern, sum)

	same, err := SHA1Hex(helloCopy)
	require.NoError(t, err)
	assert.Equal(t, sum, same)

	other, err := SHA1Hex(changed)
	require.NoError(t, err)
	assert.NotEqual(t, sum, other)
}

func TestSHA1HexMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	_, err := SHA1Hex(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
