package collector

import (
	"errors"
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"strings"

	"github.com/google/go-licenses/licenses"
	"github.com/google/licenseclassifier"
	classifier "github.com/google/licenseclassifier/v2"
)

var ErrNoLicenseFound = errors.New("no license identified in this file")

// Identifier names the license whose text is stored at a path.
type Identifier interface {
	Identify(path string) (string, error)
}

func newIdentifier(cfg Config) (Identifier, error) {
	if cfg.LicensesDir != "" {
		// LoadLicenses skips unreadable paths, so a missing database would
		// load as an empty one.
		info, err := os.Stat(cfg.LicensesDir)
		if err != nil {
			return nil, fmt.Errorf("loading licenses from '%s': %w", cfg.LicensesDir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("loading licenses from '%s': not a directory", cfg.LicensesDir)
		}

		c := classifier.NewClassifier(cfg.Confidence)
		if err := c.LoadLicenses(cfg.LicensesDir); err != nil {
			return nil, fmt.Errorf("loading licenses from '%s': %w", cfg.LicensesDir, err)
		}
		return &databaseIdentifier{classifier: c}, nil
	}

	c, err := licenses.NewClassifier(cfg.Confidence)
	if err != nil {
		return nil, err
	}
	return &goLicensesIdentifier{classifier: c}, nil
}

// goLicensesIdentifier relies on the license database embedded in go-licenses.
type goLicensesIdentifier struct {
	classifier licenses.Classifier
}

func (g *goLicensesIdentifier) Identify(path string) (string, error) {
	name, _, err := g.classifier.Identify(path)
	if err != nil {
		return "", fmt.Errorf("%w: '%s': %v", ErrNoLicenseFound, path, err)
	}
	return licenseName(name), nil
}

// databaseIdentifier matches against a license database loaded from disk.
type databaseIdentifier struct {
	classifier *classifier.Classifier
}

func (d *databaseIdentifier) Identify(path string) (string, error) {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading license file '%s': %w", path, err)
	}

	var candidates []candidate
	for _, m := range d.classifier.Match(content) {
		candidates = append(candidates, candidate{
			license:    m.Name,
			confidence: m.Confidence,
			path:       path,
		})
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: '%s'", ErrNoLicenseFound, path)
	}

	return licenseName(highestConfidence(candidates).license), nil
}

type candidate struct {
	path       string  // Absolute path to the license file.
	license    string  // Of the form "BSD-3-Clause".
	confidence float64 // Some relative number, the higher the more confident.
}

func highestConfidence(c []candidate) candidate {
	highest := candidate{confidence: -math.MaxInt64}
	for _, current := range c {
		if current.confidence < highest.confidence {
			continue
		}
		highest = current
	}

	return highest
}

// licenseType returns the licenseclassifier category of a license name, e.g.
// "notice" for MIT. Names outside the SPDX vocabulary are "unknown".
func licenseType(license string) string {
	if license == "" {
		return ""
	}
	license = licenseName(license)
	if strings.HasPrefix(license, "0BSD") {
		return "notice"
	}
	l := licenseclassifier.LicenseType(license)
	if len(l) == 0 {
		return "unknown"
	}
	return l
}

func licenseName(l string) string {
	if strings.HasPrefix(l, "MPL-2.0") {
		return "MPL-2.0"
	}
	if strings.HasPrefix(l, "LGPL-3.0") {
		return "LGPL-3.0"
	}
	if strings.HasPrefix(l, "deprecated_LGPL-3.0") {
		return "LGPL-3.0"
	}

	return l
}
