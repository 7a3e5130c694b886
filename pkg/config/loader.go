// loader.go — Load cardstencil.yml over defaults and resolve relative paths.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file. If path is empty the default
// file is tried. A missing file yields defaults. Relative paths in the file
// are resolved against the file's directory.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ResolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes YAML over the defaults. Fields absent from data keep their
// default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvePaths makes every relative path absolute against baseDir.
func (c *Config) ResolvePaths(baseDir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	l := &c.Layout
	l.Template = resolve(l.Template)
	l.Fonts.Name.Path = resolve(l.Fonts.Name.Path)
	l.Fonts.ID.Path = resolve(l.Fonts.ID.Path)
	l.Fonts.Role.Path = resolve(l.Fonts.Role.Path)
	l.Fonts.Small.Path = resolve(l.Fonts.Small.Path)

	c.Batch.CSV = resolve(c.Batch.CSV)
	c.Batch.Photos = resolve(c.Batch.Photos)
	c.Batch.Output = resolve(c.Batch.Output)
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
