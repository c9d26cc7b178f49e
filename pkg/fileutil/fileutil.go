// Package fileutil holds the file system helpers used to manage cached
// license files and generated reports.
//
// Every function works on explicit arguments only and makes a single attempt;
// failures are returned as *os.PathError or, when two paths are involved, as
// *os.LinkError. Nothing in this package logs.
package fileutil

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// Replaced in tests to reach the cross-device path of RenameFile.
var (
	renameFile = os.Rename
	removeFile = os.Remove
)

// Close releases c and discards any error. A nil c is ignored.
func Close(c io.Closer) {
	if c == nil {
		return
	}
	_ = c.Close()
}

// Exists reports whether anything (file, directory, ...) is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDirectory creates dir and its missing parents when dir does not
// exist. It reports whether a directory was created.
func EnsureDirectory(dir string) (bool, error) {
	if Exists(dir) {
		return false, nil
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return false, &os.PathError{Op: "create directory", Path: dir, Err: err}
	}
	return true, nil
}

// EnsureFile creates an empty file at path, and its parent directory, when it
// does not exist yet. It reports whether the file was created.
func EnsureFile(path string) (bool, error) {
	if _, err := EnsureDirectory(filepath.Dir(path)); err != nil {
		return false, err
	}
	if Exists(path) {
		return false, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
	if err != nil {
		return false, &os.PathError{Op: "create file", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return false, &os.PathError{Op: "create file", Path: path, Err: err}
	}
	return true, nil
}

// DeleteFile removes path. A missing path is not an error.
func DeleteFile(path string) error {
	if !Exists(path) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return &os.PathError{Op: "delete file", Path: path, Err: err}
	}
	return nil
}

// RenameFile moves src to dst. Whatever sits at dst beforehand is removed
// first; an absent dst is fine. Missing parents of dst are created.
func RenameFile(src, dst string) error {
	if err := move(src, dst); err != nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
	}
	return nil
}

func move(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errIsDirectory
	}

	if _, err := EnsureDirectory(filepath.Dir(dst)); err != nil {
		return err
	}
	if err := renameFile(src, dst); err == nil {
		return nil
	}

	// Rename does not cross file systems.
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	if err := removeFile(src); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// BuildPath joins base and segments with the platform separator. The result
// is not cleaned, so "." and ".." segments are kept as given.
func BuildPath(base string, segments ...string) string {
	if len(segments) == 0 {
		return base
	}
	sep := string(filepath.Separator)
	rest := strings.Join(segments, sep)
	if base == "" {
		return rest
	}
	if strings.HasSuffix(base, sep) {
		return base + rest
	}
	return base + sep + rest
}

// BackupPathFor returns the absolute form of path with a trailing "~".
func BackupPathFor(path string) string {
	return absolute(path) + "~"
}

// BackupFile copies path to BackupPathFor(path).
func BackupFile(path string) error {
	return CopyFile(path, BackupPathFor(path))
}

// OrderedByPath returns a sorted copy of files, compared by absolute path.
// The input slice is left untouched.
func OrderedByPath(files []string) []string {
	type keyed struct {
		file, abs string
	}
	keys := make([]keyed, len(files))
	for i, f := range files {
		keys[i] = keyed{file: f, abs: absolute(f)}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].abs < keys[j].abs
	})

	ordered := make([]string, len(keys))
	for i, k := range keys {
		ordered[i] = k.file
	}
	return ordered
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
