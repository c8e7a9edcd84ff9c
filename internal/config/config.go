// Package config handles TOML-based configuration loading and validation.
// The page selectors and stream pattern are deliberately absent: they are
// fixed by the site layout and live in the extract package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"pokeflix/internal/clipboard"
	"pokeflix/internal/media"
	"pokeflix/internal/source"
)

// Config holds all application configuration.
type Config struct {
	Clipboard   string   `toml:"clipboard"`
	BrowserURL  string   `toml:"browser_url"`
	Player      string   `toml:"player"`
	DownloadDir string   `toml:"download_dir"`
	Languages   []string `toml:"languages"`
	Debug       bool     `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Clipboard:   "auto",
		BrowserURL:  source.DefaultBrowserURL,
		Player:      "mpv",
		DownloadDir: ".",
		Languages:   []string{"audio_pl", "audio_de"},
		Debug:       false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pokeflix"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pokeflix"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validBackend := false
	for _, b := range clipboard.Backends {
		if strings.EqualFold(c.Clipboard, b) {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("unsupported clipboard %q (valid: %s)", c.Clipboard, strings.Join(clipboard.Backends, ", "))
	}

	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	for _, id := range c.Languages {
		if _, ok := media.LookupLanguage(id); !ok {
			return fmt.Errorf("unknown audio language %q (valid: %s)", id, strings.Join(media.LanguageIDs(), ", "))
		}
	}

	if c.BrowserURL == "" {
		return fmt.Errorf("browser URL cannot be empty")
	}

	return nil
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	dir := c.DownloadDir
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}
