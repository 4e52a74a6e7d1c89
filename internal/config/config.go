// Package config resolves docflow settings from defaults, an optional YAML
// file, DOCFLOW_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "DOCFLOW"

const (
	KeyConfigFile          = "config"
	KeyDB                  = "db"
	KeyHTTPAddr            = "http_addr"
	KeyDefaultHorizonDays  = "default_horizon_days"
	KeyDefaultLookbackDays = "default_lookback_days"
	KeyMaxHorizonDays      = "max_horizon_days"
	KeyLogLevel            = "log_level"
	KeyLogUseCases         = "log_usecases"
	KeyActor               = "actor"
)

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"config":       KeyConfigFile,
	"db":           KeyDB,
	"log-level":    KeyLogLevel,
	"log-usecases": KeyLogUseCases,
	"actor":        KeyActor,
}

type Config struct {
	DBPath             string
	HTTPAddr           string
	DefaultHorizonDays int
	// DefaultLookbackDays is nil when the whole history should be used.
	DefaultLookbackDays *int
	MaxHorizonDays      int
	LogLevel            slog.Level
	LogUseCases         bool
	Actor               string
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDB, defaultDBPath())
	v.SetDefault(KeyHTTPAddr, "127.0.0.1:8080")
	v.SetDefault(KeyDefaultHorizonDays, 30)
	v.SetDefault(KeyMaxHorizonDays, 365)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogUseCases, false)
	v.SetDefault(KeyActor, defaultActor())
	return v
}

// BindFlags binds whichever of the known persistent flags exist in flags.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load reads the optional config file and resolves the final settings.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		DBPath:             v.GetString(KeyDB),
		HTTPAddr:           v.GetString(KeyHTTPAddr),
		DefaultHorizonDays: v.GetInt(KeyDefaultHorizonDays),
		MaxHorizonDays:     v.GetInt(KeyMaxHorizonDays),
		LogUseCases:        v.GetBool(KeyLogUseCases),
		Actor:              v.GetString(KeyActor),
	}
	if v.IsSet(KeyDefaultLookbackDays) && v.GetString(KeyDefaultLookbackDays) != "" {
		n := v.GetInt(KeyDefaultLookbackDays)
		cfg.DefaultLookbackDays = &n
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", KeyLogLevel, v.GetString(KeyLogLevel), err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%s must not be empty", KeyDB)
	}
	if c.MaxHorizonDays <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyMaxHorizonDays, c.MaxHorizonDays)
	}
	if c.DefaultHorizonDays > c.MaxHorizonDays {
		return fmt.Errorf("%s (%d) exceeds %s (%d)",
			KeyDefaultHorizonDays, c.DefaultHorizonDays, KeyMaxHorizonDays, c.MaxHorizonDays)
	}
	if c.DefaultLookbackDays != nil && *c.DefaultLookbackDays < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyDefaultLookbackDays, *c.DefaultLookbackDays)
	}
	return nil
}

// NewLogger returns a text logger honoring the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "docflow.db"
	}
	return filepath.Join(home, ".docflow", "docflow.db")
}

func defaultActor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "cli"
}
