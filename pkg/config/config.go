// Package config loads rv settings from defaults, a YAML file, RV_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Dicklesworthstone/review_viewer/pkg/watcher"
)

// Keys, shared by flags, environment and the config file
const (
	KeyBaseURL           = "base_url"
	KeyToken             = "token"
	KeyTokenFile         = "token_file"
	KeyPrivate           = "private"
	KeyPageSize          = "page_size"
	KeyDeleteConcurrency = "delete_concurrency"
	KeyTimeout           = "timeout"
	KeyRetries           = "retries"
	KeyJournalPath       = "journal_path"
	KeyLogPath           = "log_path"
	KeyDebug             = "debug"
)

// PageSizes are the rows-per-page choices offered by the table
var PageSizes = []int{5, 10, 25, 100}

// Config is the effective rv configuration
type Config struct {
	BaseURL           string        `mapstructure:"base_url"`
	Token             string        `mapstructure:"token"`
	TokenFile         string        `mapstructure:"token_file"`
	Private           bool          `mapstructure:"private"`
	PageSize          int           `mapstructure:"page_size"`
	DeleteConcurrency int           `mapstructure:"delete_concurrency"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Retries           int           `mapstructure:"retries"`
	JournalPath       string        `mapstructure:"journal_path"`
	LogPath           string        `mapstructure:"log_path"`
	Debug             bool          `mapstructure:"debug"`
}

// SetDefaults registers every key with its default so environment
// variables are honored by Unmarshal
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, "http://localhost:5000/api")
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyTokenFile, "")
	v.SetDefault(KeyPrivate, false)
	v.SetDefault(KeyPageSize, 10)
	v.SetDefault(KeyDeleteConcurrency, 1)
	v.SetDefault(KeyTimeout, 10*time.Second)
	v.SetDefault(KeyRetries, 2)
	v.SetDefault(KeyJournalPath, defaultPath("journal.db"))
	v.SetDefault(KeyLogPath, defaultPath("rv.log"))
	v.SetDefault(KeyDebug, false)
}

// Dir returns the rv config directory
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rv"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(dir, "rv"), nil
}

func defaultPath(name string) string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".rv", name)
	}
	return filepath.Join(dir, "rv", name)
}

// Load reads the config file (cfgFile, or config.yaml in Dir when empty),
// binds RV_* environment variables and unmarshals the result. A missing
// default config file is not an error.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("RV")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("%s is required", KeyBaseURL)
	}
	if !validPageSize(c.PageSize) {
		return fmt.Errorf("%s must be one of %v, got %d", KeyPageSize, PageSizes, c.PageSize)
	}
	if c.DeleteConcurrency < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyDeleteConcurrency, c.DeleteConcurrency)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyTimeout)
	}
	if c.Retries < 0 {
		return fmt.Errorf("%s must not be negative", KeyRetries)
	}
	return nil
}

func validPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// ResolveToken returns the access token. A token file, when configured,
// wins over the inline token.
func (c Config) ResolveToken() (string, error) {
	if c.TokenFile == "" {
		return c.Token, nil
	}
	return watcher.ReadToken(c.TokenFile)
}
