package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
)

var errIsDirectory = errors.New("is a directory")

// CopyFile copies the bytes of src to dst, creating the parent of dst when
// needed. Permission bits and modification time follow the source. Copying a
// file onto itself does nothing.
func CopyFile(src, dst string) error {
	if err := copyFile(src, dst); err != nil {
		return &os.LinkError{Op: "copy", Old: src, New: dst, Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if srcInfo.IsDir() {
		return errIsDirectory
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return nil
	}

	if _, err := EnsureDirectory(filepath.Dir(dst)); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer Close(in)

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		Close(out)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
}

// CopyDirectory copies the tree rooted at srcDir into dest. Regular files go
// through CopyFile, symlinks are recreated as links.
func CopyDirectory(srcDir, dest string) error {
	entries, err := ioutil.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("list the content of the source directory '%s': %w", srcDir, err)
	}
	if _, err := EnsureDirectory(dest); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	for _, entry := range entries {
		sourcePath := filepath.Join(srcDir, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		switch entry.Mode() & os.ModeType {
		case os.ModeDir:
			if err := CopyDirectory(sourcePath, destPath); err != nil {
				return fmt.Errorf("copying directory: %w", err)
			}
		case os.ModeSymlink:
			if err := copySymlink(sourcePath, destPath); err != nil {
				return fmt.Errorf("copying symlink: %w", err)
			}
		default:
			if err := CopyFile(sourcePath, destPath); err != nil {
				return fmt.Errorf("copying content of '%s' into '%s': %w", sourcePath, destPath, err)
			}
		}
	}
	return nil
}

func copySymlink(source, dest string) error {
	link, err := os.Readlink(source)
	if err != nil {
		return fmt.Errorf("readlink syscall on source symlink '%s': %w", source, err)
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Symlink(link, dest)
}
