package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/studyquest/gamification/internal/cache"
	"github.com/studyquest/gamification/internal/repository"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `mapstructure:"database"`
	Redis    cache.Config      `mapstructure:"redis"`
	Server   ServerConfig      `mapstructure:"server"`
	Sync     SyncConfig        `mapstructure:"sync"`
	Streak   StreakConfig      `mapstructure:"streak"`

	LogLevel string `mapstructure:"logLevel"`
}

type ServerConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	AdminToken string `mapstructure:"adminToken"`
}

type SyncConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	BatchSize   int           `mapstructure:"batchSize"`
	MaxAttempts int           `mapstructure:"maxAttempts"`
}

type StreakConfig struct {
	SameDayPolicy string `mapstructure:"sameDayPolicy"`
	Timezone      string `mapstructure:"timezone"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.port", "5432")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.keyPrefix", "gamification")
	v.SetDefault("sync.interval", 2*time.Second)
	v.SetDefault("sync.batchSize", 50)
	v.SetDefault("sync.maxAttempts", 10)
	v.SetDefault("streak.sameDayPolicy", "dedupe")
	v.SetDefault("streak.timezone", "UTC")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(configPath)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Location() (*time.Location, error) {
	if c.Streak.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Streak.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid streak timezone %q: %w", c.Streak.Timezone, err)
	}
	return loc, nil
}
