// Package lockfile implements repak.lock, a stamp file that tracks MD5
// checksums of the input paks merged into each output. This enables
// incremental repacking: a locale is only merged again when one of its
// inputs changed or its output went missing.
package lockfile

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// LockFileName is the conventional lock file name.
const LockFileName = "repak.lock"

// Version is the lock file format version.
const Version = 1

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// LockFile represents the repak.lock file structure.
type LockFile struct {
	Version int                          `yaml:"version"`
	Outputs map[string]map[string]string `yaml:"outputs"` // output -> input -> md5
	// Settings holds, per output, a fingerprint of the options that shape
	// its content (format version, whitelist).
	Settings map[string]string `yaml:"settings,omitempty"`

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads the lock file at path.
// Returns an empty lock file if the file doesn't exist.
func Load(path string) (*LockFile, error) {
	lf := &LockFile{
		Version: Version,
		Outputs:  make(map[string]map[string]string),
		Settings: make(map[string]string),
		path:     path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if lf.Version != Version {
		return nil, fmt.Errorf("%s: unsupported lock file version %d", path, lf.Version)
	}
	lf.path = path

	if lf.Outputs == nil {
		lf.Outputs = make(map[string]map[string]string)
	}
	if lf.Settings == nil {
		lf.Settings = make(map[string]string)
	}

	return lf, nil
}

// Save writes the lock file to disk.
func (lf *LockFile) Save() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(lf.path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", lf.path, err)
	}
	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}

	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string {
	return lf.path
}

// ---------------------------------------------------------------------------
// Checksums
// ---------------------------------------------------------------------------

// Hash computes the MD5 hex digest of data.
func Hash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

// HashFile computes the MD5 hex digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func hashAll(inputs []string) (map[string]string, error) {
	sums := make(map[string]string, len(inputs))
	for _, in := range inputs {
		sum, err := HashFile(in)
		if err != nil {
			return nil, err
		}
		sums[filepath.ToSlash(in)] = sum
	}
	return sums, nil
}

// IsChanged reports whether output needs to be rebuilt from inputs: the
// output is missing, the set of inputs differs from the recorded one, or
// any input's content changed. Unreadable inputs count as changed so the
// merge runs and reports the real error.
func (lf *LockFile) IsChanged(output string, inputs []string) bool {
	if _, err := os.Stat(output); err != nil {
		return true
	}

	sums, err := hashAll(inputs)
	if err != nil {
		return true
	}

	lf.mu.Lock()
	defer lf.mu.Unlock()

	recorded, ok := lf.Outputs[filepath.ToSlash(output)]
	if !ok || len(recorded) != len(sums) {
		return true
	}
	for in, sum := range sums {
		if recorded[in] != sum {
			return true
		}
	}
	return false
}

// Update records the current checksums of inputs for output.
func (lf *LockFile) Update(output string, inputs []string) error {
	sums, err := hashAll(inputs)
	if err != nil {
		return fmt.Errorf("stamping %s: %w", output, err)
	}

	lf.mu.Lock()
	defer lf.mu.Unlock()
	lf.Outputs[filepath.ToSlash(output)] = sums
	return nil
}

// Fingerprint returns the settings fingerprint recorded for output, or
// "" if none was.
func (lf *LockFile) Fingerprint(output string) string {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	return lf.Settings[filepath.ToSlash(output)]
}

// SetFingerprint records the settings fingerprint of output.
func (lf *LockFile) SetFingerprint(output, fingerprint string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	lf.Settings[filepath.ToSlash(output)] = fingerprint
}

// Remove forgets output.
func (lf *LockFile) Remove(output string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	delete(lf.Outputs, filepath.ToSlash(output))
	delete(lf.Settings, filepath.ToSlash(output))
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// Stats returns the number of outputs and total inputs in the lock file.
func (lf *LockFile) Stats() (outputs, inputs int) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	outputs = len(lf.Outputs)
	for _, m := range lf.Outputs {
		inputs += len(m)
	}
	return
}

// OutputNames returns the sorted list of recorded outputs.
func (lf *LockFile) OutputNames() []string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	names := make([]string, 0, len(lf.Outputs))
	for o := range lf.Outputs {
		names = append(names, o)
	}
	sort.Strings(names)
	return names
}

// Summary returns a human-readable summary string.
func (lf *LockFile) Summary() string {
	outputs, inputs := lf.Stats()
	if outputs == 0 {
		return "empty"
	}

	var parts []string
	for _, o := range lf.OutputNames() {
		parts = append(parts, fmt.Sprintf("%s: %d inputs", filepath.Base(o), len(lf.Outputs[o])))
	}
	return fmt.Sprintf("%d outputs, %d inputs (%s)", outputs, inputs, strings.Join(parts, ", "))
}
