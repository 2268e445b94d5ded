// Package config loads user settings from the XDG config directory and
// resolves the filesystem locations binge works with.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// DefaultConcurrency bounds parallel release fetches unless the user
// overrides it.
const DefaultConcurrency = 8

// Config holds the settings read from binge.toml. All fields are
// optional.
type Config struct {
	// InstallPath is the directory binaries are installed into. When
	// empty, a directory is derived from PATH.
	InstallPath string `toml:"install_path"`

	// Concurrency bounds how many repositories are processed in
	// parallel. Zero means unbounded.
	Concurrency int `toml:"concurrency"`
}

// Load reads binge.toml from the XDG config directory. A missing file
// yields the defaults.
func Load() (Config, error) {
	cfg := Config{Concurrency: DefaultConcurrency}

	path, err := xdg.SearchConfigFile(filepath.Join("binge", "binge.toml"))
	if err != nil {
		log.Debug("no config file found, using defaults")
		return cfg, nil
	}

	return loadFile(path)
}

func loadFile(path string) (Config, error) {
	cfg := Config{Concurrency: DefaultConcurrency}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	log.Debug("loaded config", "path", path)
	return cfg, nil
}

// InstallDir resolves the directory binaries are installed into. The
// configured install_path wins; otherwise the first PATH entry ending
// in .local/bin is used.
func (c Config) InstallDir() (string, error) {
	if c.InstallPath != "" {
		return c.InstallPath, nil
	}

	suffix := filepath.Join(".local", "bin")
	for _, entry := range filepath.SplitList(os.Getenv("PATH")) {
		if strings.HasSuffix(entry, suffix) {
			return entry, nil
		}
	}

	return "", errors.New("no install directory found, set install_path in binge.toml")
}

// ManifestPath returns the location of the manifest inside the XDG
// state directory, creating parent directories as needed.
func ManifestPath() (string, error) {
	return xdg.StateFile(filepath.Join("binge", "manifest.json"))
}
