// Package config handles loading tasking TOML configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/tasking/internal/paths"
)

// Config represents a tasking configuration file.
type Config struct {
	Store   Store   `toml:"store"`
	Display Display `toml:"display"`
	Memo    Memo    `toml:"memo"`
}

// Store contains save file configuration.
type Store struct {
	// File overrides the save file location. Relative paths resolve against
	// the directory of the config file that sets it.
	File string `toml:"file"`
}

// Display contains presentation configuration.
type Display struct {
	// Language selects status labels: "ja" (default) or "en".
	Language string `toml:"language"`
}

// Memo contains memo configuration.
type Memo struct {
	// Frame wraps the memo in header and footer lines. Defaults to true.
	Frame bool `toml:"frame"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Display: Display{Language: "ja"},
		Memo:    Memo{Frame: true},
	}
}

// Load loads the global config file, then the config file beside the
// executable, then any extra files. Later files win for every key they
// define. Missing files are skipped.
func Load(extra ...string) (*Config, error) {
	globalPath, err := paths.GlobalConfigFile()
	if err != nil {
		return nil, err
	}

	files := []string{globalPath}
	if local := paths.LocalConfigFile(); local != "" {
		files = append(files, local)
	}
	files = append(files, extra...)

	return LoadFiles(files...)
}

// LoadFiles merges the given files over the defaults in order.
func LoadFiles(files ...string) (*Config, error) {
	merged := Default()
	for _, path := range files {
		if path == "" {
			continue
		}
		cfg, meta, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}
		mergeConfig(merged, cfg, meta, filepath.Dir(path))
	}
	return merged, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %q", path, undecoded[0].String())
	}

	return &cfg, meta, nil
}

func mergeConfig(base, cfg *Config, meta toml.MetaData, dir string) {
	if meta.IsDefined("store", "file") {
		file := strings.TrimSpace(cfg.Store.File)
		if file != "" && !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		base.Store.File = file
	}
	if meta.IsDefined("display", "language") {
		base.Display.Language = strings.TrimSpace(cfg.Display.Language)
	}
	if meta.IsDefined("memo", "frame") {
		base.Memo.Frame = cfg.Memo.Frame
	}
}
