package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Webhook  WebhookConfig
	Fee      FeeConfig
	Session  SessionConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	BankCacheTTLMin int
}

type WebhookConfig struct {
	// Static shared secret the bank presents as "Apikey <value>".
	APIKey string
	// Requests per second tolerated per source IP.
	RateLimit float64
	RateBurst int
}

type FeeConfig struct {
	// Platform cut in percent of the gross payment amount.
	PlatformPercent int64
}

type SessionConfig struct {
	ExpiryHours int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("BANK_CACHE_TTL_MINUTES", 30)
	viper.SetDefault("WEBHOOK_RATE_LIMIT", 20)
	viper.SetDefault("WEBHOOK_RATE_BURST", 40)
	viper.SetDefault("PLATFORM_FEE_PERCENT", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:            viper.GetString("REDIS_ADDR"),
			Password:        viper.GetString("REDIS_PASS"),
			DB:              viper.GetInt("REDIS_DB"),
			BankCacheTTLMin: viper.GetInt("BANK_CACHE_TTL_MINUTES"),
		},
		Webhook: WebhookConfig{
			APIKey:    viper.GetString("WEBHOOK_API_KEY"),
			RateLimit: viper.GetFloat64("WEBHOOK_RATE_LIMIT"),
			RateBurst: viper.GetInt("WEBHOOK_RATE_BURST"),
		},
		Fee: FeeConfig{
			PlatformPercent: viper.GetInt64("PLATFORM_FEE_PERCENT"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
	}

	return config, nil
}
