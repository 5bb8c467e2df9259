package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	HTTPAddr                 string
	LogLevel                 string
	LogFile                  string
	TickInterval             time.Duration
	RecordTimeout            time.Duration
	DatabaseURL              string
	DBAutoMigrate            bool
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	RedisAddr                string
	RedisPassword            string
	RedisDB                  int
	BoardTTLSeconds          int
	AMQPURL                  string
	AMQPExchange             string
	CORSOrigins              []string
}

func Default() Config {
	return Config{
		HTTPAddr:                 ":8080",
		LogLevel:                 "info",
		TickInterval:             time.Second,
		RecordTimeout:            2 * time.Second,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		BoardTTLSeconds:          3600,
		AMQPExchange:             "trivia.events",
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("HTTP_ADDR"); raw != "" {
		cfg.HTTPAddr = raw
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	if raw := os.Getenv("LOG_FILE"); raw != "" {
		cfg.LogFile = raw
	}
	if raw := os.Getenv("TICK_INTERVAL"); raw != "" {
		if value, err := time.ParseDuration(raw); err == nil && value > 0 {
			cfg.TickInterval = value
		}
	}
	if raw := os.Getenv("RECORD_TIMEOUT"); raw != "" {
		if value, err := time.ParseDuration(raw); err == nil && value > 0 {
			cfg.RecordTimeout = value
		}
	}
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		cfg.DatabaseURL = raw
	}
	if raw := os.Getenv("DB_AUTO_MIGRATE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.DBAutoMigrate = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("REDIS_ADDR"); raw != "" {
		cfg.RedisAddr = raw
	}
	if raw := os.Getenv("REDIS_PASSWORD"); raw != "" {
		cfg.RedisPassword = raw
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.RedisDB = value
		}
	}
	if raw := os.Getenv("BOARD_TTL_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.BoardTTLSeconds = value
		}
	}
	if raw := os.Getenv("AMQP_URL"); raw != "" {
		cfg.AMQPURL = raw
	}
	if raw := os.Getenv("AMQP_EXCHANGE"); raw != "" {
		cfg.AMQPExchange = raw
	}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		cfg.CORSOrigins = splitList(raw)
	}
	return cfg
}

func (c Config) BoardTTL() time.Duration {
	return time.Duration(c.BoardTTLSeconds) * time.Second
}

func (c Config) DBConnMaxLifetime() time.Duration {
	return time.Duration(c.DBConnMaxLifetimeSeconds) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
