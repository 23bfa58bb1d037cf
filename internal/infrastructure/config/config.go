package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	App      AppConfig     `mapstructure:"app"`
	Planner  PlannerConfig `mapstructure:"planner"`
	Lookup   LookupConfig  `mapstructure:"lookup"`
	Redis    RedisConfig   `mapstructure:"redis"`
	LogLevel string        `mapstructure:"log_level"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// PlannerConfig holds meal plan defaults.
type PlannerConfig struct {
	DayCount        int      `mapstructure:"day_count"`
	Categories      []string `mapstructure:"categories"`
	DefaultServings int      `mapstructure:"default_servings"`
}

// LookupConfig configures the recipe lookup service client.
type LookupConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// RedisConfig configures plan state persistence.
type RedisConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// LoadConfig loads the application configuration.
func LoadConfig() (*Config, error) {
	// Load the .env file if present.
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("lookup.base_url", "LOOKUP_BASE_URL")
	viper.BindEnv("lookup.timeout", "LOOKUP_TIMEOUT")
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("planner.day_count", "PLANNER_DAY_COUNT")
	viper.BindEnv("planner.categories", "PLANNER_CATEGORIES")
	viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Viper does not split env-provided string slices on its own.
	if len(config.Planner.Categories) == 1 && strings.Contains(config.Planner.Categories[0], ",") {
		config.Planner.Categories = splitTrim(config.Planner.Categories[0])
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "menu-planner")

	viper.SetDefault("planner.day_count", 7)
	viper.SetDefault("planner.categories", []string{"entrée", "plat", "dessert"})
	viper.SetDefault("planner.default_servings", 2)

	viper.SetDefault("lookup.base_url", "http://localhost:8080")
	viper.SetDefault("lookup.timeout", "10s")
	viper.SetDefault("lookup.retries", 2)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.ttl", "0")

	viper.SetDefault("log_level", "info")
}

func validateConfig(config *Config) error {
	if config.Planner.DayCount <= 0 {
		return fmt.Errorf("planner day count must be positive")
	}
	if len(config.Planner.Categories) == 0 {
		return fmt.Errorf("planner categories must not be empty")
	}
	if config.Planner.DefaultServings <= 0 {
		return fmt.Errorf("invalid default servings")
	}
	if config.Lookup.BaseURL == "" {
		return fmt.Errorf("lookup base URL is required")
	}
	if config.Lookup.Timeout <= 0 {
		return fmt.Errorf("invalid lookup timeout")
	}
	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when redis is enabled")
	}
	return nil
}
