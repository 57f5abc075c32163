// Package config loads and persists the roomsearch configuration file.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/driftmesh/roomsearch/pkg/engine"
)

//go:embed config.toml.sample
var configTemplate string

// DefaultSearchKeys are the message fields indexed by default.
var DefaultSearchKeys = []string{"content.body", "content.name", "content.topic"}

// Config is the top-level configuration.
type Config struct {
	// SearchKeys lists the indexed message fields searched by default.
	SearchKeys []string `toml:"search_keys"`

	Engine EngineConfig `toml:"engine"`
}

// EngineConfig selects and configures the search engine backend.
type EngineConfig struct {
	// Kind is "sqlite" or "postgres".
	Kind string `toml:"kind"`

	// Path is the SQLite index location. Empty means the default path
	// under the user data directory.
	Path string `toml:"path"`

	// DSN is the PostgreSQL connection string, used when Kind is
	// "postgres".
	DSN string `toml:"dsn"`

	// ForceCapability pins the translation tier ("web", "plain" or
	// "none") instead of probing the engine. Intended for exercising
	// fallback behavior; leave empty in normal operation.
	ForceCapability string `toml:"force_capability"`
}

// ForcedCapability parses the ForceCapability override. The bool reports
// whether an override is set.
func (e EngineConfig) ForcedCapability() (engine.Capability, bool, error) {
	if e.ForceCapability == "" {
		return engine.NoStructuredSyntax, false, nil
	}
	c, err := engine.ParseCapability(e.ForceCapability)
	if err != nil {
		return engine.NoStructuredSyntax, false, fmt.Errorf("parsing force_capability: %w", err)
	}
	return c, true, nil
}

// GetDefaultConfig returns a configuration with a SQLite engine at the
// default index path.
func GetDefaultConfig() (*Config, error) {
	indexPath, err := GetDefaultIndexPath()
	if err != nil {
		return nil, err
	}
	return &Config{
		SearchKeys: append([]string(nil), DefaultSearchKeys...),
		Engine: EngineConfig{
			Kind: "sqlite",
			Path: indexPath,
		},
	}, nil
}

// LoadConfig reads configPath, falling back to defaults when the file does
// not exist or leaves fields unset.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if len(config.SearchKeys) == 0 {
		config.SearchKeys = append([]string(nil), DefaultSearchKeys...)
	}
	if config.Engine.Kind == "" {
		config.Engine.Kind = "sqlite"
	}
	if config.Engine.Kind == "sqlite" && config.Engine.Path == "" {
		indexPath, err := GetDefaultIndexPath()
		if err != nil {
			return nil, err
		}
		config.Engine.Path = indexPath
	}
	if _, _, err := config.Engine.ForcedCapability(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveTemplateConfig writes the annotated sample configuration to
// configPath, substituting the default index path.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	indexPath := c.Engine.Path
	if indexPath == "" {
		var err error
		indexPath, err = GetDefaultIndexPath()
		if err != nil {
			return err
		}
	}

	template := strings.Replace(configTemplate, "/home/user/.local/share/roomsearch/index.db", indexPath, 1)
	return os.WriteFile(configPath, []byte(template), 0644)
}

// GetDefaultConfigPath returns the configuration file location, honoring
// XDG_CONFIG_HOME.
func GetDefaultConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "roomsearch", "config.toml"), nil
}

// GetDefaultIndexPath returns the SQLite index location under the user data
// directory, honoring XDG_DATA_HOME. The directory is created if missing.
func GetDefaultIndexPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, "roomsearch")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return filepath.Join(dir, "index.db"), nil
}
