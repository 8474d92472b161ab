// Package config loads shiftbuf settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SHIFTBUF_FANIN_SHARDS.
const EnvPrefix = "SHIFTBUF"

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("config: invalid")

// Config holds application configuration.
type Config struct {
	Buffer BufferConfig `mapstructure:"buffer"`
	Fanin  FaninConfig  `mapstructure:"fanin"`
	Log    LogConfig    `mapstructure:"log"`
	Run    RunConfig    `mapstructure:"run"`
}

// BufferConfig sizes the handoff buffer. Zero capacity is unbounded.
type BufferConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// FaninConfig configures the multi-producer stage.
type FaninConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Producers     int           `mapstructure:"producers"`
	Capacity      uint64        `mapstructure:"capacity"`
	Shards        uint64        `mapstructure:"shards"`
	FlushCount    int           `mapstructure:"flush_count"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	IdleSleep     time.Duration `mapstructure:"idle_sleep"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RunConfig holds scenario run settings.
type RunConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	Tolerance float64       `mapstructure:"tolerance"`
	Record    string        `mapstructure:"record"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("buffer.capacity", 0)
	v.SetDefault("fanin.enabled", false)
	v.SetDefault("fanin.producers", 4)
	v.SetDefault("fanin.capacity", 1024)
	v.SetDefault("fanin.shards", 4)
	v.SetDefault("fanin.flush_count", 64)
	v.SetDefault("fanin.flush_interval", "16ms")
	v.SetDefault("fanin.idle_sleep", "50us")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("run.timeout", "30s")
	v.SetDefault("run.tolerance", 1e-6)
	v.SetDefault("run.record", "")
}

// Default returns the built-in configuration, ignoring files and env.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	c, err := decode(v)
	if err != nil {
		panic(fmt.Sprintf("config: defaults do not decode: %v", err))
	}
	return c
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration. An explicit path must exist; otherwise
// SHIFTBUF_CONFIG or <user config dir>/shiftbuf/config.toml is read if
// present. Env vars override file values.
func Load(path string) (Config, error) {
	v := newViper()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "shiftbuf"))
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	c, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Buffer.Capacity < 0:
		return fmt.Errorf("%w: buffer.capacity %d < 0", ErrInvalid, c.Buffer.Capacity)
	case c.Fanin.Producers < 1:
		return fmt.Errorf("%w: fanin.producers %d < 1", ErrInvalid, c.Fanin.Producers)
	case c.Fanin.Shards < 1:
		return fmt.Errorf("%w: fanin.shards must be at least 1", ErrInvalid)
	case c.Fanin.Capacity < c.Fanin.Shards:
		return fmt.Errorf("%w: fanin.capacity %d smaller than shard count %d", ErrInvalid, c.Fanin.Capacity, c.Fanin.Shards)
	case c.Fanin.FlushCount < 1:
		return fmt.Errorf("%w: fanin.flush_count %d < 1", ErrInvalid, c.Fanin.FlushCount)
	case c.Fanin.FlushInterval <= 0:
		return fmt.Errorf("%w: fanin.flush_interval must be positive", ErrInvalid)
	case c.Run.Tolerance < 0:
		return fmt.Errorf("%w: run.tolerance %v < 0", ErrInvalid, c.Run.Tolerance)
	}
	return nil
}
