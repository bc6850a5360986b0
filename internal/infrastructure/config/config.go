package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string        `env:"PORT,           default=8080"`
	Env           string        `env:"ENV,            default=development"`
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,      default=24h"`
	LogLevel      string        `env:"LOG_LEVEL,      default=info"`
	AdminEmail    string        `env:"ADMIN_EMAIL,    default=admin@gestora.local"`
	NotifyWorkers int           `env:"NOTIFY_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=gestora"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SMTPConfig configures outbound mail. Leaving Host empty selects the
// simulated dev sender instead of a real SMTP relay.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	From     string `env:"SMTP_FROM, default=no-reply@gestora.local"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
