// Package config handles global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/biblyser/config.yml.
// Environment variables override file values.
type Config struct {
	RosterPath      string `yaml:"roster_path,omitempty"`
	GenderDBPath    string `yaml:"gender_db_path,omitempty"`
	GenderizeAPIKey string `yaml:"genderize_api_key,omitempty"`
	CrossrefMailto  string `yaml:"crossref_mailto,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "biblyser"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// GenderDBFile is the default gender database file name.
	GenderDBFile = "genders.db"
)

// Path returns the path to the global config file. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/biblyser/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the global configuration file and applies environment variable
// overrides. A missing file yields an empty config, not an error.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := Path(); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fine, env vars may still configure everything
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if v := os.Getenv("BIBLYSER_ROSTER"); v != "" {
		cfg.RosterPath = v
	}
	if v := os.Getenv("BIBLYSER_GENDER_DB"); v != "" {
		cfg.GenderDBPath = v
	}
	if v := os.Getenv("GENDERIZE_API_KEY"); v != "" {
		cfg.GenderizeAPIKey = v
	}
	if v := os.Getenv("CROSSREF_MAILTO"); v != "" {
		cfg.CrossrefMailto = v
	}

	cfg.RosterPath = ExpandTilde(cfg.RosterPath)
	cfg.GenderDBPath = ExpandTilde(cfg.GenderDBPath)
	return cfg, nil
}

// Save writes the configuration file, creating the config directory if
// needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// DefaultGenderDBPath is the fallback gender database location next to the
// config file.
func DefaultGenderDBPath() string {
	path := Path()
	if path == "" {
		return GenderDBFile
	}
	return filepath.Join(filepath.Dir(path), GenderDBFile)
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
