package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverNone   = "none"
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Config holds application configuration.
type Config struct {
	Export  ExportConfig
	Log     LogConfig
	Storage StorageConfig
	UI      UIConfig
}

// ExportConfig controls where Export drops files.
type ExportConfig struct {
	Dir string
}

// LogConfig holds diagnostic log settings.
type LogConfig struct {
	Path  string
	Level string
}

// StorageConfig selects the optional settings store. Driver "none" keeps
// settings in memory only. An empty Path picks the driver's default location.
type StorageConfig struct {
	Driver string
	Path   string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone string
}

// Path returns the config file location. DAYBOOK_CONFIG overrides it.
func Path() string {
	if p := os.Getenv("DAYBOOK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(home(), ".config", "daybook", "config.toml")
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

// DataDir is where the log and the sqlite store live by default.
func DataDir() string {
	return filepath.Join(home(), ".local", "share", "daybook")
}

// Load reads configuration from file and env. Env var overrides use prefix DAYBOOK_.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile is Load with an explicit config file path. A missing file is not
// an error.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	dataDir := DataDir()
	v.SetDefault("export.dir", filepath.Join(home(), "Downloads"))
	v.SetDefault("log.path", filepath.Join(dataDir, "daybook.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", DriverNone)
	v.SetDefault("storage.path", "")
	v.SetDefault("ui.timezone", "Local")

	v.SetConfigType("toml")
	v.SetConfigFile(path)

	v.SetEnvPrefix("DAYBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "", DriverNone:
		c.Storage.Driver = DriverNone
	case DriverSQLite, DriverFile:
	default:
		return Config{}, fmt.Errorf("storage.driver %q: want none, sqlite or file", c.Storage.Driver)
	}
	return c, nil
}

// Save writes the provided config to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("storage.driver", cfg.Storage.Driver)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("ui.timezone", cfg.UI.Timezone)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
