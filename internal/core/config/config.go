package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "srt-translator"
)

// Defaults used when neither flags nor the config file set a value.
const (
	DefaultProvider       = "openai"
	DefaultTargetLanguage = "zh"
	DefaultSourceLanguage = "auto"
	DefaultChunkSize      = 10
	DefaultConcurrency    = 1
	DefaultMaxRetries     = 3
	DefaultLogLevel       = "info"
)

// ConfigDir returns the standard config directory.
// Windows: %APPDATA%\srt-translator\
// macOS/Linux: ~/.config/srt-translator/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
// e.g., ~/.config/srt-translator/config.yml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

type Config struct {
	// Language of CLI messages ("en" or "zh")
	Language string `yaml:"language,omitempty"`

	// Translation provider (openai, anthropic, qwen, deepseek, compatible, gemini, ollama)
	Provider string `yaml:"provider,omitempty"`

	// Model ID; empty uses the provider default
	Model string `yaml:"model,omitempty"`

	// API endpoint override, e.g. a proxy or a local OpenAI-compatible server
	BaseURL string `yaml:"base_url,omitempty"`

	// Source language code, or "auto" to let the model detect it
	SourceLanguage string `yaml:"source_language,omitempty"`

	// Target language code (e.g., "zh", "ja") or a language name
	TargetLanguage string `yaml:"target_language,omitempty"`

	// Cues per request
	ChunkSize int `yaml:"chunk_size,omitempty"`

	// Requests in flight at once
	Concurrency int `yaml:"concurrency,omitempty"`

	// Retries per chunk for rate limits, network errors and bad replies
	MaxRetries *int `yaml:"max_retries,omitempty"`

	// debug, info, warn or error
	LogLevel string `yaml:"log_level,omitempty"`

	// Default output directory for `translator watch`
	WatchOutputDir string `yaml:"watch_output_dir,omitempty"`

	// Plain-text API keys by provider. Environment variables take precedence.
	APIKeys map[string]string `yaml:"api_keys,omitempty"`

	// Passphrase-encrypted API keys by provider, written by `config set-key`
	EncryptedAPIKeys map[string]string `yaml:"encrypted_api_keys,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	retries := DefaultMaxRetries
	return &Config{
		Language:       "en",
		Provider:       DefaultProvider,
		SourceLanguage: DefaultSourceLanguage,
		TargetLanguage: DefaultTargetLanguage,
		ChunkSize:      DefaultChunkSize,
		Concurrency:    DefaultConcurrency,
		MaxRetries:     &retries,
		LogLevel:       DefaultLogLevel,
	}
}

// Retries returns the configured retry count, or the default when unset.
func (c *Config) Retries() int {
	if c.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *c.MaxRetries
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Language == "" {
		c.Language = d.Language
	}
	if c.Provider == "" {
		c.Provider = d.Provider
	}
	if c.SourceLanguage == "" {
		c.SourceLanguage = d.SourceLanguage
	}
	if c.TargetLanguage == "" {
		c.TargetLanguage = d.TargetLanguage
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.Concurrency == 0 {
		c.Concurrency = d.Concurrency
	}
	if c.MaxRetries == nil {
		c.MaxRetries = d.MaxRetries
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.MaxRetries != nil && *c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", *c.MaxRetries)
	}
	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	return nil
}

// APIKey returns the plain-text key stored for provider.
func (c *Config) APIKey(provider string) string {
	if c.APIKeys == nil {
		return ""
	}
	return c.APIKeys[provider]
}

// EncryptedAPIKey returns the encrypted key blob stored for provider.
func (c *Config) EncryptedAPIKey(provider string) string {
	if c.EncryptedAPIKeys == nil {
		return ""
	}
	return c.EncryptedAPIKeys[provider]
}

// SetEncryptedAPIKey stores an encrypted key and drops any plain-text key
// for the same provider.
func (c *Config) SetEncryptedAPIKey(provider, blob string) {
	if c.EncryptedAPIKeys == nil {
		c.EncryptedAPIKeys = make(map[string]string)
	}
	c.EncryptedAPIKeys[provider] = blob
	if c.APIKeys != nil {
		delete(c.APIKeys, provider)
		if len(c.APIKeys) == 0 {
			c.APIKeys = nil
		}
	}
}

// Keys lists the keys accepted by Get, Set and Unset.
func Keys() []string {
	return []string{
		"language", "provider", "model", "base_url",
		"source_language", "target_language",
		"chunk_size", "concurrency", "max_retries",
		"log_level", "watch_output_dir",
		"api_keys.<provider>",
	}
}

// Set sets a config value by key
func (c *Config) Set(key, value string) error {
	if provider, ok := strings.CutPrefix(key, "api_keys."); ok && provider != "" {
		if c.APIKeys == nil {
			c.APIKeys = make(map[string]string)
		}
		c.APIKeys[provider] = value
		return nil
	}

	switch key {
	case "language":
		c.Language = value
	case "provider":
		c.Provider = strings.ToLower(value)
	case "model":
		c.Model = value
	case "base_url":
		c.BaseURL = value
	case "source_language":
		c.SourceLanguage = value
	case "target_language":
		c.TargetLanguage = value
	case "chunk_size":
		n, err := positiveInt(value)
		if err != nil {
			return err
		}
		c.ChunkSize = n
	case "concurrency":
		n, err := positiveInt(value)
		if err != nil {
			return err
		}
		c.Concurrency = n
	case "max_retries":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid number: %s", value)
		}
		c.MaxRetries = &n
	case "log_level":
		if !validLogLevels[strings.ToLower(value)] {
			return fmt.Errorf("invalid log level: %s", value)
		}
		c.LogLevel = strings.ToLower(value)
	case "watch_output_dir":
		c.WatchOutputDir = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Get gets a config value by key
func (c *Config) Get(key string) (string, error) {
	if provider, ok := strings.CutPrefix(key, "api_keys."); ok && provider != "" {
		return c.APIKey(provider), nil
	}

	switch key {
	case "language":
		return c.Language, nil
	case "provider":
		return c.Provider, nil
	case "model":
		return c.Model, nil
	case "base_url":
		return c.BaseURL, nil
	case "source_language":
		return c.SourceLanguage, nil
	case "target_language":
		return c.TargetLanguage, nil
	case "chunk_size":
		return strconv.Itoa(c.ChunkSize), nil
	case "concurrency":
		return strconv.Itoa(c.Concurrency), nil
	case "max_retries":
		return strconv.Itoa(c.Retries()), nil
	case "log_level":
		return c.LogLevel, nil
	case "watch_output_dir":
		return c.WatchOutputDir, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Unset clears a config value by key
func (c *Config) Unset(key string) error {
	if provider, ok := strings.CutPrefix(key, "api_keys."); ok && provider != "" {
		delete(c.APIKeys, provider)
		delete(c.EncryptedAPIKeys, provider)
		return nil
	}

	switch key {
	case "language":
		c.Language = ""
	case "provider":
		c.Provider = ""
	case "model":
		c.Model = ""
	case "base_url":
		c.BaseURL = ""
	case "source_language":
		c.SourceLanguage = ""
	case "target_language":
		c.TargetLanguage = ""
	case "chunk_size":
		c.ChunkSize = 0
	case "concurrency":
		c.Concurrency = 0
	case "max_retries":
		c.MaxRetries = nil
	case "log_level":
		c.LogLevel = ""
	case "watch_output_dir":
		c.WatchOutputDir = ""
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// StoredKeyProviders returns the providers with a key in the config file.
func (c *Config) StoredKeyProviders() []string {
	seen := make(map[string]bool)
	for p := range c.APIKeys {
		seen[p] = true
	}
	for p := range c.EncryptedAPIKeys {
		seen[p] = true
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func positiveInt(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid number: %s (must be > 0)", value)
	}
	return n, nil
}

// Exists checks if config file exists
func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config from ~/.config/srt-translator/config.yml
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads and validates the config at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.WatchOutputDir = expandPath(cfg.WatchOutputDir)
	cfg.ApplyDefaults()

	return cfg, nil
}

// expandPath expands the tilde (~) in the path to the user's home directory.
// It handles both forward and backward slashes so config files stay portable.
func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		// Only expand if it's explicitly "~", "~/", or "~\"
		if len(path) == 1 || path[1] == '/' || path[1] == '\\' {
			home, err := os.UserHomeDir()
			if err == nil {
				subPath := path[1:]
				if len(subPath) > 0 && (subPath[0] == '/' || subPath[0] == '\\') {
					subPath = subPath[1:]
				}
				return filepath.Join(home, subPath)
			}
		}
	}

	return path
}

// Save writes the config to ~/.config/srt-translator/config.yml
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveFile(configPath, cfg)
}

// SaveFile writes cfg to path with a header comment. The file may hold API
// keys, so it is only readable by the owner.
func SaveFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# srt-translator configuration file\n# Run 'translator config set <key> <value>' to change a setting\n\n"
	content := header + string(data)

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return err
	}
	return os.Chmod(path, 0600)
}

// SavePath returns the path where config will be saved
func SavePath() string {
	if path, err := ConfigPath(); err == nil {
		return path
	}
	return ConfigFileName
}

// LoadOrDefault loads config if it exists, otherwise returns defaults.
// A config file that exists but is broken is reported rather than ignored.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return nil, err
}
