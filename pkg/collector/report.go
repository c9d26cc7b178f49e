package collector

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jakexks/go-license-collector/pkg/fileutil"
	"github.com/jakexks/go-license-collector/pkg/license"
)

// Report lists the licenses collected for each dependency.
type Report struct {
	Dependencies []Dependency `yaml:"dependencies"`
}

type Dependency struct {
	// ID is of the form group:artifact:version.
	ID       string  `yaml:"id"`
	Licenses []Entry `yaml:"licenses,omitempty"`
}

// Entry is a license record together with what was learned while caching it.
type Entry struct {
	license.Record `yaml:",inline"`
	// Category is the licenseclassifier license type, e.g. "notice".
	Category string `yaml:"category,omitempty"`
	// SHA1 is the digest of the cached file.
	SHA1 string `yaml:"sha1,omitempty"`
}

func (r *Report) sortByID() {
	sort.SliceStable(r.Dependencies, func(i, j int) bool {
		return r.Dependencies[i].ID < r.Dependencies[j].ID
	})
}

// WriteReport stores the report as YAML at path. A previous report is kept
// as a backup next to it.
func (s *State) WriteReport(r *Report, path string) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return s.replace(path, string(out))
}

// WriteThirdParty writes one line per dependency naming its licenses, e.g.
//
//  (Apache License, Version 2.0) (MIT) org.example:lib:1.0
func (s *State) WriteThirdParty(r *Report, path string) error {
	var b strings.Builder
	if len(r.Dependencies) == 0 {
		b.WriteString("The project has no dependencies.\n")
	} else {
		fmt.Fprintf(&b, "Lists of %d third-party dependencies.\n", len(r.Dependencies))
	}
	for _, dep := range r.Dependencies {
		b.WriteString("    ")
		if len(dep.Licenses) == 0 {
			b.WriteString("(Unknown license) ")
		}
		for _, l := range dep.Licenses {
			name := l.Name
			if name == "" {
				name = "Unknown license"
			}
			fmt.Fprintf(&b, "(%s) ", name)
		}
		b.WriteString(dep.ID)
		b.WriteString("\n")
	}
	return s.replace(path, b.String())
}

// replace writes content next to path, backs up the current file if there
// is one, and moves the new content into place.
func (s *State) replace(path, content string) error {
	tmp := path + ".tmp"
	if err := fileutil.WriteAllText(tmp, content, s.Config.Encoding); err != nil {
		return err
	}
	if fileutil.Exists(path) {
		if err := fileutil.BackupFile(path); err != nil {
			return err
		}
		s.Log.Debugf("backed up '%s' to '%s'", path, fileutil.BackupPathFor(path))
	}
	if err := fileutil.RenameFile(tmp, path); err != nil {
		return err
	}
	s.Log.Infof("wrote '%s'", path)
	return nil
}
