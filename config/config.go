// Package config — .shipkit.yaml configuration file support.
//
// When a .shipkit.yaml file exists in the project root it supplies
// per-project defaults for the export and consolidate commands.
// Explicit command-line flags always win over the file; the file wins
// over the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project config file name.
const FileName = ".shipkit.yaml"

// ShipkitFile is the top-level .shipkit.yaml structure.
type ShipkitFile struct {
	// Metadata configures the store-listing export.
	Metadata Metadata `yaml:"metadata,omitempty"`
	// Strings configures the .strings consolidation.
	Strings Strings `yaml:"strings,omitempty"`
}

// Metadata holds defaults for the export command.
type Metadata struct {
	// Source is the listing copy text file.
	Source string `yaml:"source,omitempty"`
	// Out is the fastlane metadata root directory.
	Out string `yaml:"out,omitempty"`
}

// Strings holds defaults for the consolidate command.
type Strings struct {
	// ProjectDir contains the <locale>.lproj folders.
	ProjectDir string `yaml:"project_dir,omitempty"`
	// Basename of the .strings files (default "Localizable").
	Basename string `yaml:"basename,omitempty"`
	// Output .xcstrings path (default <project_dir>/<basename>.xcstrings).
	Output string `yaml:"output,omitempty"`
	// SourceLanguage is the development language code.
	SourceLanguage string `yaml:"source_language,omitempty"`
	// Version string embedded in the catalog.
	Version string `yaml:"version,omitempty"`
	// BackupExtension appended when archiving originals.
	BackupExtension string `yaml:"backup_extension,omitempty"`
}

// Load reads .shipkit.yaml from the given directory.
// Returns nil if no .shipkit.yaml exists.
func Load(rootDir string) (*ShipkitFile, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var sf ShipkitFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &sf, nil
}
