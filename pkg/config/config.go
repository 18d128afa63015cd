// Package config loads configuration for applications embedding the URL
// allowlist.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"urlguard/pkg/allowlist"
)

const (
	defaultConfigPath = "/etc/urlguard/urlguard.conf"
	configEnvVar      = "URLGUARD_CONFIG"
)

// Config contains all runtime options required by an embedding application.
type Config struct {
	Logging   LoggingConfig    `mapstructure:"logging"`
	Allowlist allowlist.Config `mapstructure:"allowlist"`

	// Contexts holds additional named allowlist configurations, one per
	// security context, from "[context.<name>]" tables.
	Contexts map[string]allowlist.Config `mapstructure:"-"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ValidateLogLevel ensures the user-provided log level matches the supported set.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(level)] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", level)
	}
	return nil
}

// Setup loads the TOML configuration file and produces a Config instance.
func Setup() (*Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadConfig() (*Config, error) {
	configPath := defaultConfigPath
	if fromEnv := strings.TrimSpace(os.Getenv(configEnvVar)); fromEnv != "" {
		configPath = fromEnv
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	contexts, err := parseContextConfigs(v)
	if err != nil {
		return nil, err
	}
	cfg.Contexts = contexts

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "stdout")
	v.SetDefault("allowlist.parse_error_limit", 20)
	v.SetDefault("allowlist.disable_default_vendor_allow", false)
	v.SetDefault("allowlist.normalize_idna", false)
}

func validateConfig(cfg *Config) error {
	if err := ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}

	if cfg.Allowlist.ParseErrorLimit < 0 {
		return errors.New("allowlist.parse_error_limit must be >= 0")
	}

	if patternsFile := cfg.Allowlist.PatternsFile; patternsFile != "" {
		if _, err := os.Stat(patternsFile); err != nil {
			return fmt.Errorf("allowlist.patterns_file not accessible: %w", err)
		}
	}

	for name, ctx := range cfg.Contexts {
		if ctx.ParseErrorLimit < 0 {
			return fmt.Errorf("context.%s.parse_error_limit must be >= 0", name)
		}
	}

	return nil
}

func parseContextConfigs(v *viper.Viper) (map[string]allowlist.Config, error) {
	raw := v.GetStringMap("context")
	if len(raw) == 0 {
		return map[string]allowlist.Config{}, nil
	}

	contexts := make(map[string]allowlist.Config)
	for key, value := range raw {
		subMap, ok := value.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("context.%s must be a table", key)
		}
		var cfg allowlist.Config
		if err := mapstructure.Decode(subMap, &cfg); err != nil {
			return nil, fmt.Errorf("parse context.%s: %w", key, err)
		}
		contexts[strings.ToLower(key)] = cfg
	}

	return contexts, nil
}
