package repo

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/odvcencio/twig/pkg/object"
)

const (
	configFile = "config.toml"

	DefaultAuthor = "Anonymous <user@twig>"
	DefaultBranch = "master"
)

// Config stores repository-local settings in .twig/config.toml.
type Config struct {
	User UserConfig `toml:"user"`
	Init InitConfig `toml:"init"`
}

// UserConfig holds the identity recorded in new commits.
type UserConfig struct {
	Name string `toml:"name"`
}

// InitConfig holds settings applied when the repository is created.
type InitConfig struct {
	DefaultBranch string `toml:"default_branch"`
}

// DefaultConfig returns the configuration written by Init.
func DefaultConfig() *Config {
	return &Config{
		User: UserConfig{Name: DefaultAuthor},
		Init: InitConfig{DefaultBranch: DefaultBranch},
	}
}

func (c *Config) fillDefaults() {
	if strings.TrimSpace(c.User.Name) == "" {
		c.User.Name = DefaultAuthor
	}
	if strings.TrimSpace(c.Init.DefaultBranch) == "" {
		c.Init.DefaultBranch = DefaultBranch
	}
}

// configKeys maps dotted keys to field accessors.
var configKeys = map[string]func(c *Config) *string{
	"user.name":           func(c *Config) *string { return &c.User.Name },
	"init.default_branch": func(c *Config) *string { return &c.Init.DefaultBranch },
}

// ConfigKeys returns the supported dotted keys in sorted order.
func ConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value stored under a dotted key such as "user.name".
func (c *Config) Get(key string) (string, error) {
	field, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("config: %w %q", ErrUnknownConfigKey, key)
	}
	return *field(c), nil
}

// Set stores value under a dotted key.
func (c *Config) Set(key, value string) error {
	field, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("config: %w %q", ErrUnknownConfigKey, key)
	}
	switch key {
	case "init.default_branch":
		if err := validateBranchName(value); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	case "user.name":
		if !object.ValidSignatureName(value) {
			return fmt.Errorf("config: %w %q", ErrInvalidAuthor, value)
		}
	}
	*field(c) = value
	return nil
}

// ReadConfig reads .twig/config.toml. A missing file yields the defaults.
func (r *Repo) ReadConfig() (*Config, error) {
	data, err := r.Dir.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("read config: decode: %w", err)
	}
	cfg.fillDefaults()
	return &cfg, nil
}

// WriteConfig writes cfg to .twig/config.toml and makes it the active
// configuration.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := r.Dir.WriteFile(configFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	r.Config = cfg
	return nil
}
