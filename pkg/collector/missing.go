package collector

import (
	"fmt"
	"strings"

	"github.com/magiconair/properties"

	"github.com/jakexks/go-license-collector/pkg/fileutil"
	"github.com/jakexks/go-license-collector/pkg/license"
)

// resolveMissing fills in the licenses of dependencies that declare none
// from the missing file. A value may name several licenses separated by "|".
// Keys of still unresolved dependencies are added with an empty value so
// they can be completed by hand.
func (s *State) resolveMissing(projects []license.Project) error {
	path := s.cachePath(MissingFileName)
	created, err := fileutil.EnsureFile(path)
	if err != nil {
		return fmt.Errorf("creating missing file: %w", err)
	}
	if created {
		s.Log.Debugf("created empty missing file '%s'", path)
	}

	content, err := fileutil.ReadAllText(path, s.Config.Encoding)
	if err != nil {
		return fmt.Errorf("reading missing file: %w", err)
	}
	// License names are literal text, "${...}" is never a reference.
	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes([]byte(content))
	if err != nil {
		return fmt.Errorf("parsing missing file '%s': %w", path, err)
	}

	changed := false
	for i := range projects {
		p := &projects[i]
		if len(p.Licenses) > 0 {
			continue
		}

		value, found := props.Get(p.MissingKey())
		for _, name := range strings.Split(value, "|") {
			if name = strings.TrimSpace(name); name != "" {
				p.Licenses = append(p.Licenses, license.Record{Name: name})
			}
		}
		if len(p.Licenses) > 0 {
			continue
		}

		s.Log.Infof("dependency %s has no license, fill in '%s' in '%s'", p.ID(), p.MissingKey(), path)
		if !found {
			if _, _, err := props.Set(p.MissingKey(), ""); err != nil {
				return fmt.Errorf("adding '%s' to the missing file: %w", p.MissingKey(), err)
			}
			changed = true
		}
	}
	if !changed {
		return nil
	}

	var b strings.Builder
	if _, err := props.Write(&b, properties.UTF8); err != nil {
		return fmt.Errorf("encoding missing file '%s': %w", path, err)
	}
	return fileutil.WriteAllText(path, b.String(), s.Config.Encoding)
}
