// Package config loads the retentiond.yml configuration, layering file
// values over built-in defaults with RETENTIOND_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/opsdrift/retentiond/internal/policy"
)

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "retentiond.yml"

// DefaultHotSubdir is the high-churn subtree swept under its own
// retention window.
const DefaultHotSubdir = "node_order_statuses_by_block/hourly"

// DefaultExclusions protect operator-managed state from the sweep.
var DefaultExclusions = []string{"visualizer_checkpoints"}

// Config is the full runtime configuration.
type Config struct {
	// DataPath is the absolute path of the node data directory. Required.
	DataPath string `mapstructure:"data_path"`

	// HotSubdir is relative to DataPath, slash-separated.
	HotSubdir string `mapstructure:"hot_subdir"`

	// Exclusions lists directory basenames (or glob patterns) that are
	// never swept.
	Exclusions []string `mapstructure:"exclusions"`

	// Thresholds overrides the built-in disk-pressure bands.
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`

	// Schedule is the cron expression used by daemon mode.
	Schedule string `mapstructure:"schedule"`

	Log     LogConfig     `mapstructure:"log"`
	Archive ArchiveConfig `mapstructure:"archive"`
}

// ThresholdsConfig mirrors policy.Table with minutes-based bands so the
// YAML stays readable. Empty lists fall back to the built-in table.
type ThresholdsConfig struct {
	General []BandConfig `mapstructure:"general"`
	Hot     []BandConfig `mapstructure:"hot"`
}

// BandConfig is one usage band. Usage is the minimum utilization
// percentage at which the band applies; Minutes is the retention window.
type BandConfig struct {
	Usage   int    `mapstructure:"usage"`
	Minutes int    `mapstructure:"minutes"`
	Name    string `mapstructure:"name"`
}

// LogConfig controls the daemon's rotating log file. An empty File
// logs to stdout only.
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// ArchiveConfig controls pre-delete upload to S3-compatible storage.
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
}

// Load reads the configuration from path, or from ./retentiond.yml when
// path is empty. A missing default file yields pure defaults plus env
// overrides; a missing explicit file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RETENTIOND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults need an explicit binding for env overrides
	// to reach Unmarshal.
	_ = v.BindEnv("data_path")
	_ = v.BindEnv("archive.bucket")
	_ = v.BindEnv("log.file")

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing || explicit {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("hot_subdir", DefaultHotSubdir)
	v.SetDefault("exclusions", DefaultExclusions)
	v.SetDefault("schedule", "*/5 * * * *")
	v.SetDefault("log.max_size_mb", 20)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.New("data_path is required")
	}
	if !filepath.IsAbs(c.DataPath) {
		return fmt.Errorf("data_path must be absolute, got %q", c.DataPath)
	}
	if c.Archive.Enabled && strings.TrimSpace(c.Archive.Bucket) == "" {
		return errors.New("archive.bucket is required when archive.enabled is set")
	}
	if _, err := c.PolicyTable(); err != nil {
		return err
	}
	return nil
}

// PolicyTable builds the classifier table, substituting the built-in
// bands for any list left empty in the config.
func (c *Config) PolicyTable() (policy.Table, error) {
	def := policy.DefaultTable()

	general := def.General
	if len(c.Thresholds.General) > 0 {
		general = toBands(c.Thresholds.General)
	}
	hot := def.Hot
	if len(c.Thresholds.Hot) > 0 {
		hot = toBands(c.Thresholds.Hot)
	}

	table, err := policy.NewTable(general, hot)
	if err != nil {
		return policy.Table{}, fmt.Errorf("thresholds: %w", err)
	}
	return table, nil
}

func toBands(bands []BandConfig) []policy.Band {
	out := make([]policy.Band, 0, len(bands))
	for _, b := range bands {
		out = append(out, policy.Band{
			MinUsage:  b.Usage,
			Retention: time.Duration(b.Minutes) * time.Minute,
			Name:      b.Name,
		})
	}
	return out
}
