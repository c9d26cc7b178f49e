package collector

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kr/pretty"

	"github.com/jakexks/go-license-collector/pkg/fileutil"
	"github.com/jakexks/go-license-collector/pkg/license"
)

// cache remembers what Import already copied into the cache directory.
type cache struct {
	bySum  map[string]string // sha1 -> file name
	byName map[string]string // file name -> sha1
}

// Import loads the descriptor file at descriptorPath, caches the license
// texts that are available locally and returns the resulting report.
func (s *State) Import(descriptorPath string) (*Report, error) {
	descriptors, err := license.LoadDescriptors(descriptorPath, s.Config.Encoding)
	if err != nil {
		return nil, err
	}
	if _, err := fileutil.EnsureDirectory(s.Config.CacheDir); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	projects := make([]license.Project, 0, len(descriptors.Dependencies))
	for _, d := range descriptors.Dependencies {
		projects = append(projects, license.FromDependency(d))
	}
	if err := s.resolveMissing(projects); err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(descriptorPath)
	c := cache{bySum: map[string]string{}, byName: map[string]string{}}
	report := &Report{}
	for _, p := range projects {
		dep := Dependency{ID: p.ID()}
		for _, r := range p.Licenses {
			entry, err := s.importLicense(r, baseDir, &c)
			if err != nil {
				return nil, fmt.Errorf("dependency %s: %w", p.ID(), err)
			}
			s.Log.Debugf("%s: %# v", p.ID(), pretty.Formatter(entry))
			dep.Licenses = append(dep.Licenses, entry)
		}
		report.Dependencies = append(report.Dependencies, dep)
	}
	report.sortByID()
	return report, nil
}

func (s *State) importLicense(r license.Record, baseDir string, c *cache) (Entry, error) {
	entry := Entry{Record: r}
	if r.Distribution == license.DistributionManual {
		s.Log.Debugf("license '%s' is distributed manually, not caching it", r.Name)
		entry.Category = licenseType(r.Name)
		return entry, nil
	}

	src, ok := localSource(r.URL, baseDir)
	if !ok {
		if r.URL != "" {
			s.Log.Debugf("license '%s': '%s' is not a local file, not caching it", r.Name, r.URL)
		}
		entry.Category = licenseType(r.Name)
		return entry, nil
	}
	if !isRegular(src) {
		found, err := findLicenseFile(src)
		if err != nil {
			return Entry{}, fmt.Errorf("license '%s': %w", r.Name, err)
		}
		src = found
	}

	file, sum, err := s.store(r.Name, src, c)
	if err != nil {
		return Entry{}, fmt.Errorf("license '%s': %w", r.Name, err)
	}
	entry.File = file
	entry.SHA1 = sum

	if entry.Name == "" && file != "" && s.identifier != nil {
		name, err := s.identifier.Identify(s.cachePath(file))
		switch {
		case errors.Is(err, ErrNoLicenseFound):
			s.Log.Infof("no license detected in '%s', check + add manually", s.cachePath(file))
		case err != nil:
			return Entry{}, err
		default:
			entry.Name = name
		}
	}
	entry.Category = licenseType(entry.Name)
	return entry, nil
}

// store copies src into the cache and returns the cached file name and its
// digest. Content already cached under another name is not stored twice.
func (s *State) store(name, src string, c *cache) (string, string, error) {
	mimeType, err := detectMimeType(src)
	if err != nil {
		return "", "", err
	}
	ext, err := fileutil.ExtensionForMimeType(mimeType, !s.Config.Force)
	if err != nil {
		return "", "", fmt.Errorf("'%s': %w. Run with --force to ignore.", src, err)
	}
	if ext == "" {
		s.Log.Infof("'%s' has mime type %s, not caching it", src, mimeType)
		return "", "", nil
	}

	file := uniqueName(cacheFileName(name, ext), c.byName)
	dst := s.cachePath(file)
	if err := fileutil.CopyFile(src, dst); err != nil {
		return "", "", err
	}
	if ext == fileutil.ExtText {
		text, err := fileutil.ReadAllText(dst, s.Config.Encoding)
		if err != nil {
			return "", "", err
		}
		if err := fileutil.WriteAllText(dst, text, s.Config.Encoding); err != nil {
			return "", "", err
		}
	}

	sum, err := fileutil.SHA1Hex(dst)
	if err != nil {
		return "", "", err
	}
	if previous, found := c.bySum[sum]; found {
		s.Log.Debugf("'%s' has the same content as '%s'", dst, previous)
		if err := fileutil.DeleteFile(dst); err != nil {
			return "", "", err
		}
		return previous, sum, nil
	}

	c.bySum[sum] = file
	c.byName[file] = sum
	s.Log.Infof("cached '%s' as '%s'", src, dst)
	return file, sum, nil
}

// uniqueName appends a counter to file until it is not taken.
func uniqueName(file string, taken map[string]string) string {
	if _, found := taken[file]; !found {
		return file
	}
	ext := filepath.Ext(file)
	base := strings.TrimSuffix(file, ext)
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i) + ext
		if _, found := taken[candidate]; !found {
			return candidate
		}
	}
}
