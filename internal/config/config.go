// Package config loads kalusto configuration from flags, environment, and
// the optional ~/.kalusto/config.yaml, in viper's usual precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full tool configuration.
type Config struct {
	LogLevel  string          `mapstructure:"log_level"`
	Output    OutputConfig    `mapstructure:"output"`
	AWS       AWSConfig       `mapstructure:"aws"`
	PriceList PriceListConfig `mapstructure:"pricelist"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// OutputConfig holds export preferences.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	Path    string `mapstructure:"path"`
	NoColor bool   `mapstructure:"no_color"`
}

// AWSConfig holds AWS client settings.
type AWSConfig struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// PriceListConfig holds price-list collection settings.
type PriceListConfig struct {
	BaseURL     string   `mapstructure:"base_url"`
	ServiceCode string   `mapstructure:"service_code"`
	MaxVersions int      `mapstructure:"max_versions"`
	Families    []string `mapstructure:"families"`
}

// CacheConfig holds blob cache settings.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// MetricsConfig holds CloudWatch capture settings.
type MetricsConfig struct {
	Period   time.Duration `mapstructure:"period"`
	Lookback time.Duration `mapstructure:"lookback"`
}

// Load reads configuration, applying defaults first. cfgFile may be empty,
// in which case the default locations are searched and a missing file is
// not an error.
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".kalusto"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("KALUSTO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("log_level", "info")

	viper.SetDefault("output.format", "yaml")
	viper.SetDefault("output.path", "")
	viper.SetDefault("output.no_color", false)

	viper.SetDefault("aws.region", "us-east-1")
	viper.SetDefault("aws.profile", "")

	viper.SetDefault("pricelist.base_url", "")
	viper.SetDefault("pricelist.service_code", "AmazonEC2")
	viper.SetDefault("pricelist.max_versions", 0)
	viper.SetDefault("pricelist.families", []string{"Compute Instance"})

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dir", defaultCacheDir())
	viper.SetDefault("cache.ttl", time.Duration(0))

	viper.SetDefault("metrics.period", 5*time.Minute)
	viper.SetDefault("metrics.lookback", time.Hour)
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kalusto-cache"
	}
	return filepath.Join(home, ".kalusto", "cache")
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "yaml", "json":
	default:
		return fmt.Errorf("unsupported output format %q (yaml, json)", c.Output.Format)
	}
	if c.PriceList.MaxVersions < 0 {
		return fmt.Errorf("pricelist.max_versions must not be negative")
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache is enabled but no cache dir configured")
	}
	if c.Metrics.Period <= 0 {
		return fmt.Errorf("metrics.period must be positive")
	}
	return nil
}

// FamilySet returns the product-family allow-list as a set.
func (c *PriceListConfig) FamilySet() map[string]bool {
	set := make(map[string]bool, len(c.Families))
	for _, f := range c.Families {
		set[f] = true
	}
	return set
}
