package collector

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jakexks/go-license-collector/pkg/fileutil"
)

var (
	licenseFileRegex      = regexp.MustCompile(`^(?i)(LICEN(S|C)E|COPYING|NOTICE)(\..+)?$`)
	fileNameRegex         = regexp.MustCompile(`[^a-z0-9.]+`)
	ErrNoLicenseFileFound = errors.New("not able to find a license file in this directory")
)

// localSource resolves a license URL to a file on disk. Relative paths are
// taken from baseDir. Remote URLs and missing files are not local.
func localSource(licenseURL, baseDir string) (string, bool) {
	if licenseURL == "" {
		return "", false
	}

	path := licenseURL
	if strings.Contains(licenseURL, "://") {
		u, err := url.Parse(licenseURL)
		if err != nil || u.Scheme != "file" {
			return "", false
		}
		path = filepath.FromSlash(u.Path)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	if !fileutil.Exists(path) {
		return "", false
	}
	return path, true
}

// findLicenseFile returns the first file, by path, of dir whose name looks
// like a license.
func findLicenseFile(dir string) (string, error) {
	var licenseFiles []string
	err := filepath.Walk(dir, func(path string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fileInfo.IsDir() {
			return nil
		}
		if licenseFileRegex.MatchString(fileInfo.Name()) {
			licenseFiles = append(licenseFiles, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking the tree starting at '%s': %w", dir, err)
	}
	if len(licenseFiles) == 0 {
		return "", ErrNoLicenseFileFound
	}
	return fileutil.OrderedByPath(licenseFiles)[0], nil
}

// detectMimeType sniffs the first 512 bytes of the file at path.
func detectMimeType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer fileutil.Close(f)

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading '%s': %w", path, err)
	}
	return http.DetectContentType(head[:n]), nil
}

// cacheFileName derives a file name from the license name, e.g.
// "apache-license-version-2.0.txt" for "Apache License, Version 2.0".
func cacheFileName(name, ext string) string {
	base := strings.Trim(fileNameRegex.ReplaceAllString(strings.ToLower(name), "-"), "-.")
	if base == "" {
		base = "license"
	}
	return base + ext
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
