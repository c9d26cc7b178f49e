package collector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jakexks/go-license-collector/pkg/fileutil"
)

// File names written into the cache directory.
const (
	ReportFileName     = "licenses.yaml"
	ThirdPartyFileName = "THIRD-PARTY.txt"
	MissingFileName    = "THIRD-PARTY.properties"
)

type Config struct {
	// CacheDir receives the local copies of license texts and the reports.
	CacheDir string
	// Encoding is the IANA charset used for every text file read or written.
	Encoding string
	// Force turns unknown license file types into warnings.
	Force bool
	Debug bool
	// LicensesDir, when set, holds the license database of the
	// licenseclassifier/v2 identifier.
	LicensesDir string
	Confidence  float64
}

// ConfigFromViper reads the configuration bound by the command line.
func ConfigFromViper() Config {
	return Config{
		CacheDir:    viper.GetString("cache-dir"),
		Encoding:    viper.GetString("encoding"),
		Force:       viper.GetBool("force"),
		Debug:       viper.GetBool("debug"),
		LicensesDir: viper.GetString("licenses-dir"),
		Confidence:  viper.GetFloat64("confidence"),
	}
}

type State struct {
	Log        *zap.SugaredLogger
	Config     Config
	identifier Identifier
}

// Init builds the logger, unless one was set already, and the license
// identifier. With Force a broken identifier only disables identification.
func (s *State) Init(cfg Config) error {
	if s.Log == nil {
		zcfg := zap.NewDevelopmentConfig()
		if !cfg.Debug {
			zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
		logger, err := zcfg.Build()
		if err != nil {
			return err
		}
		s.Log = logger.Sugar()
	}
	s.Config = cfg

	var err error
	s.identifier, err = newIdentifier(cfg)
	switch {
	case err != nil && cfg.Force:
		s.Log.Warnf("license identification disabled: %v", err)
		s.identifier = nil
	case errors.Is(err, os.ErrNotExist) && cfg.LicensesDir != "":
		return fmt.Errorf("the license database '%s' is missing, download it with:\n  curl -L https://github.com/google/licenseclassifier/archive/refs/tags/v2.0.0-alpha.1.tar.gz | tar xz && mv licenseclassifier-*/licenses .", cfg.LicensesDir)
	case err != nil:
		return fmt.Errorf("loading license identifier: %w. Run with --force to ignore.", err)
	}
	return nil
}

// Cleanup flushes the logger.
func (s *State) Cleanup() {
	if s.Log != nil {
		_ = s.Log.Sync()
	}
}

func (s *State) cachePath(name string) string {
	return fileutil.BuildPath(s.Config.CacheDir, name)
}

// Clean deletes the backups and temporary files left in the cache directory.
// It returns the deleted paths in path order.
func (s *State) Clean() ([]string, error) {
	var leftovers []string
	for _, pattern := range []string{"*~", "*.tmp"} {
		matches, err := filepath.Glob(s.cachePath(pattern))
		if err != nil {
			return nil, fmt.Errorf("listing '%s' in '%s': %w", pattern, s.Config.CacheDir, err)
		}
		leftovers = append(leftovers, matches...)
	}

	leftovers = fileutil.OrderedByPath(leftovers)
	for _, path := range leftovers {
		if err := fileutil.DeleteFile(path); err != nil {
			return nil, err
		}
		s.Log.Debugf("deleted '%s'", path)
	}
	return leftovers, nil
}
