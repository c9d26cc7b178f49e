package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jakexks/go-license-collector/pkg/collector"
	"github.com/jakexks/go-license-collector/pkg/fileutil"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	root = &cobra.Command{
		Use:   "license-collector",
		Short: "collect third-party license metadata",
		Long:  `Given a descriptor file listing dependencies and their licenses, cache the license texts and write license reports.`,
	}
	importCmd = &cobra.Command{
		Use:   "import <descriptors.yaml>",
		Short: "cache the license texts of all dependencies and write the reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var s collector.State
			if err := s.Init(collector.ConfigFromViper()); err != nil {
				return fmt.Errorf("while initializing license-collector: %w", err)
			}
			defer s.Cleanup()

			// Cobra-specificity: runE should only return an error if this error
			// is related to the usage of the CLI. Otherwise, the error must be
			// handled and nil must be returned.
			if err := runImport(&s, args[0]); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			return nil
		},
	}
	hashCmd = &cobra.Command{
		Use:   "hash <file>...",
		Short: "print the SHA-1 digest of files, ordered by path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			for _, f := range fileutil.OrderedByPath(args) {
				sum, err := fileutil.SHA1Hex(f)
				if err != nil {
					return err
				}
				fmt.Printf("%s  %s\n", sum, f)
			}
			return nil
		},
	}
	extensionCmd = &cobra.Command{
		Use:   "extension <mime-type>",
		Short: "print the file extension a license of this mime type is stored under",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ext, err := fileutil.ExtensionForMimeType(args[0], !viper.GetBool("force"))
			if err != nil {
				return fmt.Errorf("%w. Run with --force to ignore.", err)
			}
			fmt.Println(ext)
			return nil
		},
	}
	normalizeCmd = &cobra.Command{
		Use:   "normalize <file>...",
		Short: "back up files then rewrite them with the platform line endings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return normalize(args, viper.GetString("encoding"))
		},
	}
	backupCmd = &cobra.Command{
		Use:   "backup <file>...",
		Short: "copy each file to its backup, the same path followed by '~'",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			for _, f := range args {
				if err := fileutil.BackupFile(f); err != nil {
					return err
				}
				fmt.Println(fileutil.BackupPathFor(f))
			}
			return nil
		},
	}
	cleanCmd = &cobra.Command{
		Use:   "clean",
		Short: "delete the backups and temporary files of the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			var s collector.State
			if err := s.Init(collector.ConfigFromViper()); err != nil {
				return fmt.Errorf("while initializing license-collector: %w", err)
			}
			defer s.Cleanup()

			deleted, err := s.Clean()
			if err != nil {
				return err
			}
			s.Log.Infof("deleted %d files from '%s'", len(deleted), s.Config.CacheDir)
			return nil
		},
	}
	exportCmd = &cobra.Command{
		Use:   "export <dir>",
		Short: "copy the cache directory, license texts and reports, into dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cacheDir := viper.GetString("cache-dir")
			if err := fileutil.CopyDirectory(cacheDir, args[0]); err != nil {
				return fmt.Errorf("exporting '%s' to '%s': %w", cacheDir, args[0], err)
			}
			return nil
		},
	}
)

func init() {
	cobra.OnInitialize(flagsFromEnv)
	root.PersistentFlags().String("cache-dir", "licenses", "Directory receiving the license texts and reports")
	root.PersistentFlags().String("encoding", "UTF-8", "Character encoding of every text file read or written")
	root.PersistentFlags().BoolP("force", "f", false, "Skip license files of unknown type instead of failing")
	root.PersistentFlags().BoolP("debug", "d", false, "Print debug logs")
	root.PersistentFlags().String("licenses-dir", "", "License database for identifying unnamed licenses (licenseclassifier/v2 layout)")
	root.PersistentFlags().Float64("confidence", 0.9, "Minimum confidence of a license identification")
	root.AddCommand(importCmd, hashCmd, extensionCmd, normalizeCmd, backupCmd, cleanCmd, exportCmd)
	viper.BindPFlags(root.PersistentFlags())
}

// flagsFromEnv allows flags to be set from environment variables.
func flagsFromEnv() {
	viper.SetEnvPrefix("license_collector")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func Execute() {
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// The collector state must have been already initialized with Init.
func runImport(s *collector.State, descriptors string) error {
	report, err := s.Import(descriptors)
	if err != nil {
		return fmt.Errorf("importing '%s': %w", descriptors, err)
	}

	for _, dep := range report.Dependencies {
		if len(dep.Licenses) == 0 {
			fmt.Printf("dependency %s: no license, check + add manually\n", dep.ID)
			continue
		}
		for _, l := range dep.Licenses {
			fmt.Printf("dependency %s: %s (%s)\n", dep.ID, l.Name, l.Category)
		}
	}

	reportPath := fileutil.BuildPath(s.Config.CacheDir, collector.ReportFileName)
	if err := s.WriteReport(report, reportPath); err != nil {
		return fmt.Errorf("writing %s: %w", collector.ReportFileName, err)
	}
	thirdParty := fileutil.BuildPath(s.Config.CacheDir, collector.ThirdPartyFileName)
	if err := s.WriteThirdParty(report, thirdParty); err != nil {
		return fmt.Errorf("writing %s: %w", collector.ThirdPartyFileName, err)
	}
	return nil
}

func normalize(files []string, encoding string) error {
	for _, f := range files {
		text, err := fileutil.ReadAllText(f, encoding)
		if err != nil {
			return err
		}
		if err := fileutil.BackupFile(f); err != nil {
			return err
		}
		if err := fileutil.WriteAllText(f, text, encoding); err != nil {
			return err
		}
	}
	return nil
}
