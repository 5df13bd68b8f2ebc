package util

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	LogLevel      string `toml:"log_level"`
	LogFile       string `toml:"log_file"`
	Color         bool   `toml:"color"`
	MaxMatchDepth int    `toml:"max_match_depth"`
}

// LoadConfigFile overlays settings from a TOML file onto the configuration.
func (c *Configuration) LoadConfigFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %s", path, undecoded[0].String())
	}
	return nil
}
