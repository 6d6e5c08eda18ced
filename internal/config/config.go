package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds nodemap configuration.
type Config struct {
	UI     UIConfig     `toml:"ui"`
	Editor EditorConfig `toml:"editor"`
	Browse BrowseConfig `toml:"browse"`
}

// UIConfig controls display options.
type UIConfig struct {
	Color bool `toml:"color"`
}

// EditorConfig controls editor behavior.
type EditorConfig struct {
	// ConfirmDelete asks before deleting a node.
	ConfirmDelete bool `toml:"confirm_delete"`
	// MouseEnabled turns terminal mouse reporting on.
	MouseEnabled bool `toml:"mouse"`
}

// BrowseConfig controls where file prompts start browsing.
type BrowseConfig struct {
	// Dir overrides the default browse location (the home directory).
	Dir string `toml:"dir"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		UI:     UIConfig{Color: true},
		Editor: EditorConfig{ConfirmDelete: true, MouseEnabled: true},
		Browse: BrowseConfig{Dir: ""},
	}
}

// BrowseDir resolves the starting directory for open/save prompts: the
// configured override if set, otherwise the user's home directory.
func (c *Config) BrowseDir() string {
	if c.Browse.Dir != "" {
		return c.Browse.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// ConfigDir returns the nodemap config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "nodemap")
}

func configPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, falling back to defaults if it doesn't exist
// or can't be parsed.
func Load() *Config {
	cfg := Default()
	path := configPath()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = toml.Unmarshal(data, cfg)
	return cfg
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
