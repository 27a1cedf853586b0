package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tailscale/hujson"
)

const (
	configDirName  = ".libvend"
	configFileName = "config.json"

	defaultStorageDir = "libs"
)

// Config is the libvend tool configuration stored at ~/.libvend/config.json.
// It covers the ambient endpoints and layout only; the per-operation
// selection flags are never persisted.
type Config struct {
	// Registry is the package registry metadata endpoint.
	Registry string `json:"registry,omitempty"`
	// CDN is the download base for library assets.
	CDN string `json:"cdn,omitempty"`
	// StorageDir is the project-relative storage root for installed
	// libraries.
	StorageDir string `json:"storageDir,omitempty"`
}

// ConfigManager handles reading and writing the libvend configuration.
type ConfigManager struct {
	configDir string
	mu        sync.RWMutex
}

// NewConfigManager creates a ConfigManager using the default config path
// (~/.libvend/).
func NewConfigManager() (*ConfigManager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return &ConfigManager{
		configDir: filepath.Join(home, configDirName),
	}, nil
}

// NewConfigManagerWithDir creates a ConfigManager using a custom config
// directory. Useful for testing.
func NewConfigManagerWithDir(dir string) *ConfigManager {
	return &ConfigManager{configDir: dir}
}

// ConfigPath returns the full path to the config file.
func (cm *ConfigManager) ConfigPath() string {
	return filepath.Join(cm.configDir, configFileName)
}

// Load reads the config from disk. The file is parsed as JWCC (JSON with
// comments and trailing commas) since users edit it by hand. Returns the
// default config if the file doesn't exist; missing fields fall back to
// their defaults.
func (cm *ConfigManager) Load() (*Config, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	data, err := os.ReadFile(cm.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	def := defaultConfig()
	if cfg.Registry == "" {
		cfg.Registry = def.Registry
	}
	if cfg.CDN == "" {
		cfg.CDN = def.CDN
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = def.StorageDir
	}
	return &cfg, nil
}

// Save writes the config to disk atomically, creating the directory if
// needed.
func (cm *ConfigManager) Save(cfg *Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if err := os.MkdirAll(cm.configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return writeFileAtomic(cm.ConfigPath(), data)
}

func defaultConfig() *Config {
	return &Config{
		Registry:   defaultRegistryURL,
		CDN:        defaultCDNURL,
		StorageDir: defaultStorageDir,
	}
}
