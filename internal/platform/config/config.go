package config

import (
	"fmt"
	"strings"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	// Validation policy
	MaxRejectRate        float64  `mapstructure:"POLICY_MAX_REJECT_RATE" validate:"gte=0,lte=1"`
	MaxRejectRows        int      `mapstructure:"POLICY_MAX_REJECT_ROWS" validate:"gte=0"`
	Mode                 string   `mapstructure:"POLICY_MODE" validate:"oneof=STRICT LENIENT"`
	QuarantineDuplicates bool     `mapstructure:"POLICY_QUARANTINE_DUPLICATES"`
	DateLayouts          []string `mapstructure:"POLICY_DATE_LAYOUTS" validate:"dive,required"`

	// Paths
	InputPath    string `mapstructure:"INPUT_PATH" validate:"required"`
	ProcessedDir string `mapstructure:"PROCESSED_DIR" validate:"required"`
	GoldDir      string `mapstructure:"GOLD_DIR" validate:"required"`
	MetricsDir   string `mapstructure:"METRICS_DIR" validate:"required"`

	// Run store
	RunStore       string `mapstructure:"RUN_STORE" validate:"oneof=file postgres"`
	DatabaseURL    string `mapstructure:"PGSQL_URL" validate:"required_if=RunStore postgres"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	// HTTP server
	Port               string   `mapstructure:"PORT" validate:"required,numeric"`
	IsProduction       bool     `mapstructure:"IS_PRODUCTION"`
	JWTSecret          string   `mapstructure:"JWT_SECRET" validate:"required"`
	RateLimit          string   `mapstructure:"RATE_LIMIT" validate:"required"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	PosthogAPIKey      string   `mapstructure:"POSTHOG_API_KEY"`

	LogLevel string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
}

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

func setDefaults(v *viper.Viper) {
	v.SetDefault("POLICY_MAX_REJECT_RATE", 0.05)
	v.SetDefault("POLICY_MAX_REJECT_ROWS", 0)
	v.SetDefault("POLICY_MODE", string(domain.ModeStrict))
	v.SetDefault("POLICY_QUARANTINE_DUPLICATES", false)
	v.SetDefault("POLICY_DATE_LAYOUTS", domain.DefaultDateLayouts)
	v.SetDefault("INPUT_PATH", "data/raw/transactions_sample.csv")
	v.SetDefault("PROCESSED_DIR", "data/processed")
	v.SetDefault("GOLD_DIR", "data/gold")
	v.SetDefault("METRICS_DIR", "metrics")
	v.SetDefault("RUN_STORE", "file")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("RATE_LIMIT", "30-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("LOG_LEVEL", "info")
}

// LoadConfig loads configuration from defaults, an optional config file (YAML, TOML or any
// format viper knows), the .env file if present and the environment, in increasing priority.
func LoadConfig(configPath string) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Mode = strings.ToUpper(strings.TrimSpace(cfg.Mode))
	cfg.RunStore = strings.ToLower(strings.TrimSpace(cfg.RunStore))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Policy builds the validation policy described by the configuration.
func (c *Config) Policy() domain.ValidationPolicy {
	return domain.ValidationPolicy{
		MaxRejectRate:        decimal.NewFromFloat(c.MaxRejectRate),
		MaxRejectRows:        c.MaxRejectRows,
		Mode:                 domain.GateMode(c.Mode),
		QuarantineDuplicates: c.QuarantineDuplicates,
		DateLayouts:          c.DateLayouts,
	}
}

// UsesDefaultJWTSecret reports whether the insecure built-in secret is in effect.
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}
