// Package config provides configuration loading for scpterm using TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Fetcher holds HTTP fetching settings.
type Fetcher struct {
	BaseURL        string `toml:"baseURL"`
	UserAgent      string `toml:"userAgent"`
	TimeoutSeconds int    `toml:"timeoutSeconds"`
	UseBrowser     bool   `toml:"useBrowser"`
	ChromePath     string `toml:"chromePath"`
}

// Pager holds scrolling and layout settings.
type Pager struct {
	ScrollLines int `toml:"scrollLines"`
	Margin      int `toml:"margin"`
}

// Skin holds display colors. Colors are ANSI foreground codes (31-37).
type Skin struct {
	BoldColor int   `toml:"boldColor"`
	CodeColor int   `toml:"codeColor"`
	QuoteDim  *bool `toml:"quoteDim"` // nil keeps the default
}

// Config is the main configuration struct
type Config struct {
	Fetcher Fetcher `toml:"fetcher"`
	Pager   Pager   `toml:"pager"`
	Skin    Skin    `toml:"skin"`
}

// Default returns the default configuration.
func Default() *Config {
	dim := true
	return &Config{
		Fetcher: Fetcher{
			BaseURL:        "https://scp-wiki.wikidot.com/scp-",
			UserAgent:      "scpterm/1.0 (Terminal Reader)",
			TimeoutSeconds: 30,
		},
		Pager: Pager{
			ScrollLines: 5,
			Margin:      20,
		},
		Skin: Skin{
			BoldColor: 31,
			CodeColor: 33,
			QuoteDim:  &dim,
		},
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "scpterm"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads configuration, layering user config on top of defaults.
// Returns the default config if no user config exists.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return Default(), nil // Return defaults if we can't determine path
	}
	return LoadFile(configPath)
}

// LoadFile layers the config at path on top of defaults. A missing file
// yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	userCfg, err := loadFromTOML(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	return merge(cfg, userCfg), nil
}

// loadFromTOML loads a TOML config file and returns the config.
func loadFromTOML(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return &cfg, nil
}

// merge layers user config on top of defaults.
// Only non-zero values from user config override defaults.
func merge(defaults, user *Config) *Config {
	result := *defaults

	// Fetcher
	mergeString(&result.Fetcher.BaseURL, user.Fetcher.BaseURL)
	mergeString(&result.Fetcher.UserAgent, user.Fetcher.UserAgent)
	mergeString(&result.Fetcher.ChromePath, user.Fetcher.ChromePath)
	mergeInt(&result.Fetcher.TimeoutSeconds, user.Fetcher.TimeoutSeconds)
	if user.Fetcher.UseBrowser {
		result.Fetcher.UseBrowser = true
	}

	// Pager
	mergeInt(&result.Pager.ScrollLines, user.Pager.ScrollLines)
	mergeInt(&result.Pager.Margin, user.Pager.Margin)

	// Skin
	mergeInt(&result.Skin.BoldColor, user.Skin.BoldColor)
	mergeInt(&result.Skin.CodeColor, user.Skin.CodeColor)
	if user.Skin.QuoteDim != nil {
		result.Skin.QuoteDim = user.Skin.QuoteDim
	}

	return &result
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeInt(dst *int, src int) {
	if src > 0 {
		*dst = src
	}
}

// DefaultTOML returns the default configuration as a TOML string.
// Used for --init-config to generate a user config file.
func DefaultTOML() string {
	return `# scpterm configuration
# Save to ~/.config/scpterm/config.toml and customize
# Only include settings you want to change from defaults

# HTTP fetching settings
[fetcher]
baseURL = "https://scp-wiki.wikidot.com/scp-"   # The page id is appended to this
userAgent = "scpterm/1.0 (Terminal Reader)"
timeoutSeconds = 30
useBrowser = false            # Fetch with headless Chrome (same as --browser)
chromePath = ""               # Path to Chrome/Chromium (empty = auto-detect)

# Pager settings
[pager]
scrollLines = 5               # Lines moved per arrow key
margin = 20                   # Columns kept free around the text

# Colors are ANSI foreground codes: 31 red, 32 green, 33 yellow,
# 34 blue, 35 magenta, 36 cyan, 37 white
[skin]
boldColor = 31
codeColor = 33
quoteDim = true
`
}

// FormatError formats a configuration error for user display.
func FormatError(err error) string {
	return fmt.Sprintf("Configuration error:\n\n%s", err.Error())
}
