// Package config loads stopwatch settings from an optional YAML file,
// STOPWATCH_* environment variables and built-in defaults.
package config

import (
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"stopwatch_tui/internal/laps"
	"stopwatch_tui/internal/timer"
)

// MaxLapCapacity is the largest history that still gets distinct two-digit
// sequence labels on screen.
const MaxLapCapacity = 99

// Config holds all stopwatch configuration.
type Config struct {
	// DataDir holds the database and log file unless they are overridden.
	DataDir string `mapstructure:"data_dir"`

	// DBPath is the sqlite database holding persisted timer and lap state.
	DBPath string `mapstructure:"db_path"`

	// LapCapacity is the number of lap slots kept in the history.
	LapCapacity int `mapstructure:"lap_capacity"`

	// TickInterval is the display refresh period while running.
	TickInterval time.Duration `mapstructure:"tick_interval"`

	// AnimationDuration is the length of one lap slot slide.
	AnimationDuration time.Duration `mapstructure:"animation_duration"`

	// LogLevel is a logrus level name.
	LogLevel string `mapstructure:"log_level"`

	// LogFile receives log output; the terminal belongs to the UI.
	LogFile string `mapstructure:"log_file"`
}

// DefaultDataDir returns ~/.stopwatch, or a relative directory if the home
// directory cannot be determined.
func DefaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return ".stopwatch"
	}
	return filepath.Join(home, ".stopwatch")
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		DataDir:           dataDir,
		DBPath:            filepath.Join(dataDir, "stopwatch.db"),
		LapCapacity:       laps.DefaultCapacity,
		TickInterval:      timer.DefaultTickInterval,
		AnimationDuration: laps.DefaultAnimationDuration,
		LogLevel:          "info",
		LogFile:           filepath.Join(dataDir, "stopwatch.log"),
	}
}

// Load reads configuration. configFile may be empty, in which case
// config.yaml is looked up in the default data directory; a missing file is
// not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	defaults := DefaultConfig()

	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("db_path", "")
	v.SetDefault("lap_capacity", defaults.LapCapacity)
	v.SetDefault("tick_interval", defaults.TickInterval)
	v.SetDefault("animation_duration", defaults.AnimationDuration)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_file", "")

	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return nil, errors.Wrapf(err, "expand config path %s", configFile)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaults.DataDir)
	}

	// STOPWATCH_LAP_CAPACITY, STOPWATCH_DATA_DIR, ...
	v.SetEnvPrefix("STOPWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePaths expands ~ and derives the database and log paths from the
// data directory when they are not set explicitly.
func (c *Config) resolvePaths() error {
	var err error
	if c.DataDir, err = homedir.Expand(c.DataDir); err != nil {
		return errors.Wrap(err, "expand data_dir")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "stopwatch.db")
	}
	if c.DBPath, err = homedir.Expand(c.DBPath); err != nil {
		return errors.Wrap(err, "expand db_path")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "stopwatch.log")
	}
	if c.LogFile, err = homedir.Expand(c.LogFile); err != nil {
		return errors.Wrap(err, "expand log_file")
	}
	return nil
}

// Validate rejects settings the stopwatch cannot run with.
func (c *Config) Validate() error {
	if c.LapCapacity < 1 || c.LapCapacity > MaxLapCapacity {
		return errors.Errorf("lap_capacity must be between 1 and %d, got %d", MaxLapCapacity, c.LapCapacity)
	}
	if c.TickInterval <= 0 {
		return errors.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.AnimationDuration <= 0 {
		return errors.Errorf("animation_duration must be positive, got %s", c.AnimationDuration)
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	return nil
}

// YAML renders the configuration in config file form.
func (c *Config) YAML() ([]byte, error) {
	out := struct {
		DataDir           string `yaml:"data_dir"`
		DBPath            string `yaml:"db_path"`
		LapCapacity       int    `yaml:"lap_capacity"`
		TickInterval      string `yaml:"tick_interval"`
		AnimationDuration string `yaml:"animation_duration"`
		LogLevel          string `yaml:"log_level"`
		LogFile           string `yaml:"log_file"`
	}{
		DataDir:           c.DataDir,
		DBPath:            c.DBPath,
		LapCapacity:       c.LapCapacity,
		TickInterval:      c.TickInterval.String(),
		AnimationDuration: c.AnimationDuration.String(),
		LogLevel:          c.LogLevel,
		LogFile:           c.LogFile,
	}
	data, err := yaml.Marshal(out)
	return data, errors.Wrap(err, "render config")
}
