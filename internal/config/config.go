package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Printer   PrinterConfig
	Store     StoreConfig
	Polling   PollingConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Token string // shared secret the front-end sends on every agent call
	Debug bool
}

type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type PrinterConfig struct {
	BaudRate       int
	ConnectTimeout time.Duration
	ChunkDelay     time.Duration
}

type StoreConfig struct {
	Path string
}

type PollingConfig struct {
	ChatInterval  time.Duration
	OrderInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "pos-agent")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "3491")
	viper.SetDefault("APP_TOKEN", "")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("UPSTREAM_BASE_URL", "http://localhost:8080/api/v1")
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 10)
	viper.SetDefault("PRINTER_BAUD_RATE", 9600)
	viper.SetDefault("PRINTER_CONNECT_TIMEOUT_SECONDS", 5)
	viper.SetDefault("PRINTER_CHUNK_DELAY_MS", 20)
	viper.SetDefault("STORE_PATH", "pos-agent.db")
	viper.SetDefault("POLL_CHAT_SECONDS", 5)
	viper.SetDefault("POLL_ORDER_SECONDS", 15)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Token: viper.GetString("APP_TOKEN"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Upstream: UpstreamConfig{
			BaseURL: viper.GetString("UPSTREAM_BASE_URL"),
			Timeout: time.Duration(viper.GetInt("UPSTREAM_TIMEOUT_SECONDS")) * time.Second,
		},
		Printer: PrinterConfig{
			BaudRate:       viper.GetInt("PRINTER_BAUD_RATE"),
			ConnectTimeout: time.Duration(viper.GetInt("PRINTER_CONNECT_TIMEOUT_SECONDS")) * time.Second,
			ChunkDelay:     time.Duration(viper.GetInt("PRINTER_CHUNK_DELAY_MS")) * time.Millisecond,
		},
		Store: StoreConfig{
			Path: viper.GetString("STORE_PATH"),
		},
		Polling: PollingConfig{
			ChatInterval:  time.Duration(viper.GetInt("POLL_CHAT_SECONDS")) * time.Second,
			OrderInterval: time.Duration(viper.GetInt("POLL_ORDER_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}
