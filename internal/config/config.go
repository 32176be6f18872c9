package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	Secret         string        `mapstructure:"secret"`
	MatchTimeout   time.Duration `mapstructure:"match_timeout"`
	ReaperInterval time.Duration `mapstructure:"reaper_interval"`
	MaxMessageLen  int           `mapstructure:"max_message_len"`
}

// Load reads configuration from an optional YAML file, the environment
// (RANDOCHAT_ prefix), and a .env file, in that order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Str("module", "config").Msg("no .env file, relying on environment")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("secret", "")
	v.SetDefault("match_timeout", "30s")
	v.SetDefault("reaper_interval", "15s")
	v.SetDefault("max_message_len", 1000)

	v.SetEnvPrefix("RANDOCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := os.Getenv("RANDOCHAT_CONFIG"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		log.Info().Str("module", "config").Str("file", file).Msg("loaded config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("RANDOCHAT_SECRET must be set")
	}
	return &cfg, nil
}
