package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conduit-lang/inspector/internal/logging"
	"github.com/conduit-lang/inspector/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. INSPECTOR_SERVER_PORT
const EnvPrefix = "INSPECTOR"

// Config represents the inspector configuration
type Config struct {
	Log    logging.Config `mapstructure:"log"`
	UI     UIConfig       `mapstructure:"ui"`
	Output OutputConfig   `mapstructure:"output"`
	Server ServerConfig   `mapstructure:"server"`
	Store  store.Config   `mapstructure:"store"`
}

// UIConfig represents editor presentation settings
type UIConfig struct {
	TextCapacity  int     `mapstructure:"text_capacity"`
	DragStep      float64 `mapstructure:"drag_step"`
	PreviewWidth  float64 `mapstructure:"preview_width"`
	PreviewHeight float64 `mapstructure:"preview_height"`
	NoColor       bool    `mapstructure:"no_color"`
}

// OutputConfig represents document output settings
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Indent int    `mapstructure:"indent"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("ui.text_capacity", 256)
	v.SetDefault("ui.drag_step", 0.1)
	v.SetDefault("ui.preview_width", 300)
	v.SetDefault("ui.preview_height", 300)
	v.SetDefault("ui.no_color", false)

	v.SetDefault("output.format", "json")
	v.SetDefault("output.indent", 4)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 7070)
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.token_ttl", time.Hour)

	v.SetDefault("store.driver", store.DriverMemory)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.prefix", store.DefaultKeyPrefix)
}

// Load loads the configuration from inspector.yml or inspector.yaml in the
// working directory, or from path when it is not empty.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith loads the configuration through v, so callers can bind flags
// onto it first.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("inspector")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// FindConfigFile walks up from the working directory looking for
// inspector.yml or inspector.yaml
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{"inspector.yml", "inspector.yaml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no inspector.yml found")
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch cfg.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("output.format must be json or yaml, got: %s", cfg.Output.Format)
	}
	if cfg.Output.Indent < 0 {
		return fmt.Errorf("output.indent must not be negative, got: %d", cfg.Output.Indent)
	}
	if cfg.UI.TextCapacity < 2 {
		return fmt.Errorf("ui.text_capacity must be at least 2, got: %d", cfg.UI.TextCapacity)
	}
	if cfg.UI.DragStep <= 0 {
		return fmt.Errorf("ui.drag_step must be positive, got: %v", cfg.UI.DragStep)
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if !slices.Contains(store.Drivers, cfg.Store.Driver) {
		return fmt.Errorf("store.driver must be one of %s, got: %s",
			strings.Join(store.Drivers, ", "), cfg.Store.Driver)
	}
	switch cfg.Store.Driver {
	case store.DriverSQLite, store.DriverPgx, store.DriverPostgres:
		if cfg.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %s", cfg.Store.Driver)
		}
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	return nil
}
