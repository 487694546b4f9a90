package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// flags may be nil.
func Load(flags *Flags) (*Config, error) {
	cfg := Default()

	configPath := flags.ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	flags.apply(cfg)

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./ldrawkit.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	home, _ := homedir.Dir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "ldrawkit")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "ldrawkit")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "ldrawkit")
		}
		return filepath.Join(home, ".config", "ldrawkit")
	}
}

// loadFromFile merges a YAML file over cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// expandPaths resolves "~" in directory settings.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.LDraw.Directory, &c.LDraw.LSynthDirectory, &c.LDraw.StudLogoDirectory, &c.Logging.LogFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding %s: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}
