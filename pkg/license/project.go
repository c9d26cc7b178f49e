package license

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jakexks/go-license-collector/pkg/fileutil"
)

// DependencyDescriptor is one dependency entry of a descriptor file.
type DependencyDescriptor struct {
	GroupID    string       `yaml:"groupId"`
	ArtifactID string       `yaml:"artifactId"`
	Version    string       `yaml:"version"`
	Licenses   []Descriptor `yaml:"licenses"`
}

// Descriptors is the content of a descriptor file:
//
//  dependencies:
//    - groupId: org.apache.commons
//      artifactId: commons-lang3
//      version: 3.12.0
//      licenses:
//        - name: Apache License, Version 2.0
//          url: https://www.apache.org/licenses/LICENSE-2.0.txt
//          distribution: repo
type Descriptors struct {
	Dependencies []DependencyDescriptor `yaml:"dependencies"`
}

// Project groups the license records of one dependency.
type Project struct {
	GroupID    string   `yaml:"groupId"`
	ArtifactID string   `yaml:"artifactId"`
	Version    string   `yaml:"version"`
	Licenses   []Record `yaml:"licenses"`
}

func FromDependency(d DependencyDescriptor) Project {
	p := Project{
		GroupID:    d.GroupID,
		ArtifactID: d.ArtifactID,
		Version:    d.Version,
	}
	for _, l := range d.Licenses {
		p.Licenses = append(p.Licenses, FromDescriptor(l))
	}
	return p
}

// ID returns the dependency coordinates, e.g. org.apache.commons:commons-lang3:3.12.0
func (p Project) ID() string {
	return fmt.Sprintf("%s:%s:%s", p.GroupID, p.ArtifactID, p.Version)
}

// MissingKey returns the key under which a license is looked up in a
// missing file, e.g. org.apache.commons--commons-lang3--3.12.0
func (p Project) MissingKey() string {
	return fmt.Sprintf("%s--%s--%s", p.GroupID, p.ArtifactID, p.Version)
}

// LoadDescriptors reads and decodes the descriptor file at path.
func LoadDescriptors(path, encoding string) (Descriptors, error) {
	content, err := fileutil.ReadAllText(path, encoding)
	if err != nil {
		return Descriptors{}, fmt.Errorf("reading descriptor file: %w", err)
	}

	var d Descriptors
	if err := yaml.Unmarshal([]byte(content), &d); err != nil {
		return Descriptors{}, fmt.Errorf("decoding descriptor file '%s': %w", path, err)
	}
	return d, nil
}
