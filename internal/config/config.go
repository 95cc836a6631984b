package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
)

// ErrMissingEntry is returned when the config file exists but has no root
// directory for the requested dataset.
var ErrMissingEntry = errors.New("config file missing dataset entry")

// Roots maps a dataset identifier to its root directory. Values may start
// with "~" and are expanded by the caller.
type Roots map[string]string

// Names returns the dataset identifiers in r, sorted.
func (r Roots) Names() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRoots returns the roots written to ~/.ooddb/config.json on first use.
func DefaultRoots() Roots {
	return Roots{
		"domainnet":     "~/data/DomainNet",
		"dtd":           "~/data/DTD",
		"patternnet":    "~/data/PatternNet",
		"stanford_cars": "~/data/Stanford_Cars",
		"sun":           "~/data/SUN397",
	}
}

// Dir returns the absolute path to ~/.ooddb/, or $OODDB_HOME when set.
func Dir() (string, error) {
	if v := os.Getenv("OODDB_HOME"); v != "" {
		return ExpandPath(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".ooddb"), nil
}

// Path returns the absolute path to ~/.ooddb/config.json.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// SplitsDir returns the directory holding the split manifests:
// $OODDB_SPLITS when set, ~/.ooddb/splits otherwise.
func SplitsDir() (string, error) {
	if v := os.Getenv("OODDB_SPLITS"); v != "" {
		return ExpandPath(v)
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "splits"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
// "~user" forms are left untouched.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// Load reads and parses the roots file at path.
func Load(fs afero.Fs, path string) (Roots, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	var roots Roots
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	if roots == nil {
		roots = Roots{}
	}
	return roots, nil
}

// Save marshals roots and writes them to path, creating the parent directory.
func Save(fs afero.Fs, path string, roots Roots) error {
	data, err := json.MarshalIndent(roots, "", "    ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	// Write then rename so unlocked readers never see a partial file.
	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("cannot replace config %s: %w", path, err)
	}
	return nil
}
