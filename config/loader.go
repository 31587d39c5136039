package config

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/spf13/pflag"

	"audioconv/models"
)

// LoadConfig loads configuration with priority: CLI flags > Config file > Defaults.
//
// An empty path searches the standard locations; a missing file there is not
// an error. fs may be nil when no command line is involved. The returned
// string is the config file that was read, or "" if none was.
func LoadConfig(path string, fs *pflag.FlagSet) (*Config, string, error) {
	return load(path, fs, (*Config).Validate)
}

// LoadSettings is LoadConfig for commands that only inspect files or
// binaries. Output placement is not validated, so a configured output
// directory need not exist yet.
func LoadSettings(path string, fs *pflag.FlagSet) (*Config, string, error) {
	return load(path, fs, (*Config).ValidateSettings)
}

func load(path string, fs *pflag.FlagSet, validate func(*Config) error) (*Config, string, error) {
	// 1. Start with defaults
	cfg := DefaultConfig()

	// 2. Config file, explicit or discovered
	path = strings.TrimSpace(path)
	if path == "" {
		path = FindConfigFile()
	}
	if path != "" {
		fileCfg, err := LoadConfigFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg = fileCfg
	}

	// 3. Merge CLI flags (highest priority, overwrites everything)
	if fs != nil {
		if err := cfg.MergeFromFlags(fs); err != nil {
			return nil, "", err
		}
	}

	if cfg.Concurrency == 0 {
		cfg.Concurrency = AutoConcurrency()
	}

	cfg.ApplyFormatDefaults()

	if err := validate(cfg); err != nil {
		return nil, "", err
	}

	return cfg, path, nil
}

// ApplyFormatDefaults fills an empty bitrate with the target format's default
// and turns the literal "none" into an empty bitrate. Unknown formats are left
// for Validate to report.
func (c *Config) ApplyFormatDefaults() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if strings.EqualFold(strings.TrimSpace(c.Bitrate), BitrateNone) {
		c.Bitrate = ""
		return
	}
	if c.Bitrate != "" {
		return
	}
	if f, err := models.LookupFormat(c.Format); err == nil {
		c.Bitrate = f.DefaultBitrate
	}
}

// AutoConcurrency returns the number of physical cores, falling back to the
// logical count and finally to 1.
func AutoConcurrency() int {
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		return n
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return 1
}
