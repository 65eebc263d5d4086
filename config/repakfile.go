package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// RepakFile is the top-level .repak.yaml structure. It only carries the
// optional knobs; directory roots and locales always come from the
// command line so the build files stay the single source of truth.
type RepakFile struct {
	// OS overrides the host-derived target platform.
	OS string `yaml:"os,omitempty"`
	// PakVersion is the output pak format (4 or 5).
	PakVersion int `yaml:"pak_version,omitempty"`
	// Whitelist is a resource id whitelist, relative to the config file.
	Whitelist string `yaml:"whitelist,omitempty"`
	// SuppressRemovedKeys silences per-id whitelist logging.
	SuppressRemovedKeys bool `yaml:"suppress_removed_keys,omitempty"`
	// LockFile enables incremental mode, relative to the config file.
	LockFile string `yaml:"lock_file,omitempty"`
	// Verbosity is the default log verbosity.
	Verbosity int `yaml:"verbosity,omitempty"`

	path string
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// RepakFileName is the default per-project config file name.
const RepakFileName = ".repak.yaml"

// userConfigRel is the user-level config location below XDG_CONFIG_HOME.
const userConfigRel = "repak/config.yaml"

// Path returns the file the config was loaded from.
func (rf *RepakFile) Path() string {
	return rf.path
}

// LoadRepakFile loads and validates a config file.
// Returns nil if the file doesn't exist.
func LoadRepakFile(path string) (*RepakFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var rf RepakFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	rf.path = path

	if rf.PakVersion != 0 && rf.PakVersion != 4 && rf.PakVersion != 5 {
		return nil, fmt.Errorf("%s: pak_version %d is not supported (valid: 4, 5)", path, rf.PakVersion)
	}
	if rf.Verbosity < 0 {
		return nil, fmt.Errorf("%s: verbosity must not be negative", path)
	}

	// Relative paths are relative to the config file
	base := filepath.Dir(path)
	if rf.Whitelist != "" && !filepath.IsAbs(rf.Whitelist) {
		rf.Whitelist = filepath.Join(base, rf.Whitelist)
	}
	if rf.LockFile != "" && !filepath.IsAbs(rf.LockFile) {
		rf.LockFile = filepath.Join(base, rf.LockFile)
	}

	return &rf, nil
}

// FindRepakFile locates the config file to use. An explicit path must
// exist. Otherwise .repak.yaml in dir is tried, then the user config at
// $XDG_CONFIG_HOME/repak/config.yaml. Returns nil when none is found.
func FindRepakFile(explicit, dir string) (*RepakFile, error) {
	if explicit != "" {
		rf, err := LoadRepakFile(explicit)
		if err != nil {
			return nil, err
		}
		if rf == nil {
			return nil, fmt.Errorf("config file %s not found", explicit)
		}
		return rf, nil
	}

	rf, err := LoadRepakFile(filepath.Join(dir, RepakFileName))
	if rf != nil || err != nil {
		return rf, err
	}

	userPath, err := xdg.SearchConfigFile(userConfigRel)
	if err != nil {
		return nil, nil
	}
	return LoadRepakFile(userPath)
}

// Apply fills the options that were not given explicitly on the command
// line from the config file. explicit reports whether a flag was set.
func (rf *RepakFile) Apply(o Options, explicit func(flag string) bool) Options {
	if rf == nil {
		return o
	}
	if rf.OS != "" && !explicit("os") {
		o.OS = rf.OS
	}
	if rf.PakVersion != 0 && !explicit("pak-version") {
		o.PakVersion = rf.PakVersion
	}
	if rf.Whitelist != "" && !explicit("whitelist") {
		o.Whitelist = rf.Whitelist
	}
	if rf.SuppressRemovedKeys && !explicit("suppress-removed") {
		o.SuppressRemovedKeys = true
	}
	if rf.LockFile != "" && !explicit("lock") {
		o.LockFile = rf.LockFile
	}
	if rf.Verbosity > 0 && !explicit("verbose") {
		o.Verbosity = rf.Verbosity
	}
	return o
}
