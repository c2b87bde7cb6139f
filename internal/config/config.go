package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SMTPConfig holds mail delivery settings. Delivery is disabled when Host
// is empty.
type SMTPConfig struct {
	Host          string `mapstructure:"SMTP_HOST"`
	Port          int    `mapstructure:"SMTP_PORT"`
	Username      string `mapstructure:"SMTP_USERNAME"`
	Password      string `mapstructure:"SMTP_PASSWORD"`
	FromName      string `mapstructure:"SMTP_FROM_NAME"`
	FromEmail     string `mapstructure:"SMTP_FROM_EMAIL"`
	TLSEnabled    bool   `mapstructure:"SMTP_TLS"`
	SkipTLSVerify bool   `mapstructure:"SMTP_SKIP_TLS_VERIFY"`
}

// TelegramConfig enables the optional Telegram deliverer when Token is set.
type TelegramConfig struct {
	Token  string `mapstructure:"TELEGRAM_TOKEN"`
	ChatID int64  `mapstructure:"TELEGRAM_CHAT_ID"`
}

// Config keeps runtime settings for the service.
type Config struct {
	Environment        string `mapstructure:"ENVIRONMENT"`
	HTTPAddr           string `mapstructure:"HTTP_ADDR"`
	DatabasePath       string `mapstructure:"DATABASE_PATH"`
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	TokenTTLHours      int    `mapstructure:"TOKEN_TTL_HOURS"`
	MaintenanceMinutes int    `mapstructure:"MAINTENANCE_INTERVAL_MINUTES"`

	// Addresses that receive admin-audience notification mail. Filled
	// from the comma-separated ADMIN_EMAILS value after unmarshalling.
	AdminEmails []string `mapstructure:"-"`

	// Bootstrap admin account, created only when the user table is empty.
	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	AdminName     string `mapstructure:"ADMIN_NAME"`

	SMTP     SMTPConfig     `mapstructure:",squash"`
	Telegram TelegramConfig `mapstructure:",squash"`
}

// TokenTTL is the lifetime of issued login tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// MaintenanceInterval is how often the due-task maintenance sweep runs.
func (c Config) MaintenanceInterval() time.Duration {
	return time.Duration(c.MaintenanceMinutes) * time.Minute
}

// Load reads configuration from a .env file in path (optional for local
// development) and from the environment.
func Load(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("DATABASE_PATH", "reconciliation.db")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)
	viper.SetDefault("MAINTENANCE_INTERVAL_MINUTES", 15)
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "admin123")
	viper.SetDefault("ADMIN_NAME", "Administrator")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_TLS", true)

	// AutomaticEnv resolves keys only on lookup; Unmarshal walks the keys
	// viper already knows about. Keys without a default must be bound
	// explicitly or they vanish when no .env file supplies them.
	for _, key := range []string{
		"JWT_SECRET", "ADMIN_EMAILS",
		"SMTP_HOST", "SMTP_USERNAME", "SMTP_PASSWORD",
		"SMTP_FROM_NAME", "SMTP_FROM_EMAIL", "SMTP_SKIP_TLS_VERIFY",
		"TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID",
	} {
		if err := viper.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AdminEmails = splitList(viper.GetString("ADMIN_EMAILS"))

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
