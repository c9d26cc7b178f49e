// package license holds the license metadata collected for a project's dependencies
package license

// Common distribution tokens. The set is open, other values are kept as-is.
const (
	// DistributionRepo means the artifact may be downloaded from a package repository.
	DistributionRepo = "repo"
	// DistributionManual means the user must obtain and install the artifact by hand.
	DistributionManual = "manual"
)

// Record describes a single license of a dependency. Every field is
// optional; the empty string means absent.
type Record struct {
	// Name is the full legal name of the license, e.g. Apache License, Version 2.0
	Name string `yaml:"name,omitempty"`
	// URL is where the license text lives, e.g. https://www.apache.org/licenses/LICENSE-2.0.txt
	URL string `yaml:"url,omitempty"`
	// Distribution is how the licensed artifact may be obtained, see DistributionRepo and DistributionManual
	Distribution string `yaml:"distribution,omitempty"`
	// Comments is free-form addendum information about this license
	Comments string `yaml:"comments,omitempty"`
	// File is the name, without directory, of the local copy of the text found at URL
	File string `yaml:"file,omitempty"`
}

// Descriptor is a license as declared by a dependency.
type Descriptor struct {
	Name         string `yaml:"name"`
	URL          string `yaml:"url"`
	Distribution string `yaml:"distribution"`
	Comments     string `yaml:"comments"`
}

func NewRecord(name, url, distribution, comments, file string) Record {
	return Record{
		Name:         name,
		URL:          url,
		Distribution: distribution,
		Comments:     comments,
		File:         file,
	}
}

// FromDescriptor copies name, URL, distribution and comments from d. File is
// left absent until the license text has been cached.
func FromDescriptor(d Descriptor) Record {
	return NewRecord(d.Name, d.URL, d.Distribution, d.Comments, "")
}
