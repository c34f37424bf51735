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

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
	Calc    CalcConfig    `mapstructure:"calc"`
}

// StorageConfig selects the todo backend. Dir holds todos.json or pocket.db.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Dir    string `mapstructure:"dir"`
}

// LogConfig: File empty means stderr for commands and nothing for the TUI.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type UIConfig struct {
	Theme string `mapstructure:"theme"`
	Color string `mapstructure:"color"`
}

type CalcConfig struct {
	ErrorDelay time.Duration `mapstructure:"error_delay"`
}

// Load reads configuration from file and env. The file is $POCKET_CONFIG
// when set, else ~/.config/pocket/config.toml; a missing file is fine.
// Env var overrides use prefix POCKET_, e.g. POCKET_STORAGE_DRIVER.
func Load() (Config, error) {
	return LoadFile(os.Getenv("POCKET_CONFIG"))
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()
	v.SetDefault("storage.driver", DriverJSON)
	v.SetDefault("storage.dir", filepath.Join(home, ".local", "share", "pocket"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("ui.theme", "classic")
	v.SetDefault("ui.color", "auto")
	v.SetDefault("calc.error_delay", 1500*time.Millisecond)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "pocket"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("POCKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// only the implicit search path may be absent
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return fmt.Errorf("%w: storage.driver must be %q or %q, got %q", ErrInvalid, DriverJSON, DriverSQLite, c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Dir) == "" {
		return fmt.Errorf("%w: storage.dir is empty", ErrInvalid)
	}
	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: ui.color must be auto, always or never, got %q", ErrInvalid, c.UI.Color)
	}
	if c.Calc.ErrorDelay <= 0 {
		return fmt.Errorf("%w: calc.error_delay must be positive, got %s", ErrInvalid, c.Calc.ErrorDelay)
	}
	return nil
}

// SQLitePath is where the sqlite driver keeps its database.
func (c Config) SQLitePath() string {
	return filepath.Join(c.Storage.Dir, "pocket.db")
}
