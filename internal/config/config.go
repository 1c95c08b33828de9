package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig carries the filesystem locations for the active execution mode.
// Stores receive these as explicit constructor arguments; nothing below the
// config layer reads the environment.
type StoreConfig struct {
	DataDir         string
	CredentialsFile string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file.
// APP_ENV=test switches the document root and the credentials file to the
// test copies; everything else comes from the normal root.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "4567")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("CREDENTIALS_FILE", "users.yml")
	viper.SetDefault("TEST_DATA_DIR", filepath.Join("tests", "data"))
	viper.SetDefault("TEST_CREDENTIALS_FILE", filepath.Join("tests", "users.yml"))
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("SESSION_TTL_MINUTES", 1440)
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	env := viper.GetString("APP_ENV")

	store := StoreConfig{
		DataDir:         viper.GetString("DATA_DIR"),
		CredentialsFile: viper.GetString("CREDENTIALS_FILE"),
	}
	if env == "test" {
		store = StoreConfig{
			DataDir:         viper.GetString("TEST_DATA_DIR"),
			CredentialsFile: viper.GetString("TEST_CREDENTIALS_FILE"),
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  env,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Store: store,
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			TTL:    time.Duration(viper.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if cfg.Session.Secret == "" {
		log.Println("WARNING: SESSION_SECRET is not set; set a secure value in production")
		cfg.Session.Secret = "insecure-dev-session-secret"
	}

	return cfg, nil
}
