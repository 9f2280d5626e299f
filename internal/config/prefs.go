package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultDataFile is where the JSON data file lives when nothing else is set.
const DefaultDataFile = "data/memberbook.json"

// Window remembers the last window geometry of an interactive front end.
type Window struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	// X and Y are nil until a front end records a position.
	X *int `yaml:"x,omitempty" json:"x,omitempty"`
	Y *int `yaml:"y,omitempty" json:"y,omitempty"`
}

// Prefs are the user preferences kept next to the data file.
type Prefs struct {
	// DataFilePath is the JSON data file used by the file storage driver.
	DataFilePath string `yaml:"data_file" json:"data_file"`
	Window       Window `yaml:"window" json:"window"`
	// ArchivePrefix overrides the blob key prefix for backups.
	ArchivePrefix string `yaml:"archive_prefix,omitempty" json:"archive_prefix,omitempty"`
}

// DefaultPrefs returns preferences for a first run.
func DefaultPrefs() Prefs {
	return Prefs{
		DataFilePath: DefaultDataFile,
		Window:       Window{Width: 740, Height: 600},
	}
}

// Normalize fills zero values with defaults so older files keep working.
func (p *Prefs) Normalize() {
	p.DataFilePath = strings.TrimSpace(p.DataFilePath)
	if p.DataFilePath == "" {
		p.DataFilePath = DefaultDataFile
	}
	if p.Window.Width <= 0 {
		p.Window.Width = 740
	}
	if p.Window.Height <= 0 {
		p.Window.Height = 600
	}
	p.ArchivePrefix = strings.Trim(strings.TrimSpace(p.ArchivePrefix), "/")
}

// LoadPrefs reads preferences from path. On first run the defaults are
// written to path with 0600 permissions and returned.
func LoadPrefs(path string) (Prefs, error) {
	if path == "" {
		return Prefs{}, errors.New("prefs path is empty")
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from trusted configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			prefs := DefaultPrefs()
			return prefs, SavePrefs(path, prefs)
		}
		return Prefs{}, err
	}
	prefs := DefaultPrefs()
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return Prefs{}, fmt.Errorf("parse prefs %s: %w", path, err)
	}
	prefs.Normalize()
	return prefs, nil
}

// SavePrefs writes prefs atomically via a temp file and rename.
func SavePrefs(path string, prefs Prefs) error {
	if path == "" {
		return errors.New("prefs path is empty")
	}
	prefs.Normalize()
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.yaml")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
