package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Env struct {
	AppAddr     string
	GinMode     string
	StoreDriver string
	// StoreTimeout bounds every store call made while serving a request.
	StoreTimeout time.Duration

	DB          DBConfig
	JWT         JWTConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	AMQP        AMQPConfig
	Log         LogConfig
	Admin       AdminConfig
	CORSOrigins []string

	RatingCacheTTL     time.Duration
	CompletionInterval time.Duration
}

type DBConfig struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

// AdminConfig seeds an admin account at startup when Username and Password
// are both set.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

type LogConfig struct {
	Level string
	File  string
}

func LoadEnv() Env {
	appAddr := str("APP_ADDR", ":8080")

	return Env{
		AppAddr:      appAddr,
		GinMode:      str("GIN_MODE", ""),
		StoreDriver:  strings.ToLower(str("STORE_DRIVER", "mysql")),
		StoreTimeout: dur("STORE_TIMEOUT", 5*time.Second),
		DB: DBConfig{
			User: str("DB_USER", "root"),
			Pass: os.Getenv("DB_PASS"),
			Host: str("DB_HOST", "127.0.0.1"),
			Port: str("DB_PORT", "3306"),
			Name: str("DB_NAME", "travel_booking"),
		},
		JWT: JWTConfig{
			Secret: str("JWT_SECRET", "super-secret-key-change-me"),
			TTL:    dur("JWT_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     str("REDIS_ADDR", ""),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       num("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled:        boolean("RATE_LIMIT_ENABLED", true),
			Capacity:       num("RATE_LIMIT_CAPACITY", 60),
			RefillTokens:   num("RATE_LIMIT_REFILL_TOKENS", 1),
			RefillInterval: dur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
			TTL:            dur("RATE_LIMIT_TTL", 10*time.Minute),
			Prefix:         str("RATE_LIMIT_PREFIX", "rl"),
		},
		AMQP: AMQPConfig{
			URL:      str("AMQP_URL", ""),
			Exchange: str("AMQP_EXCHANGE", "travelbook.events"),
		},
		Log: LogConfig{
			Level: str("LOG_LEVEL", "info"),
			File:  str("LOG_FILE", ""),
		},
		Admin: AdminConfig{
			Username: str("ADMIN_USERNAME", ""),
			Email:    str("ADMIN_EMAIL", "admin@travelbook.local"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		CORSOrigins:        list("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		RatingCacheTTL:     dur("RATING_CACHE_TTL", 5*time.Minute),
		CompletionInterval: dur("COMPLETION_INTERVAL", time.Hour),
	}
}

func str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func num(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolean(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// dur accepts Go durations ("5s") or plain seconds ("5").
func dur(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

func list(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out := []string{}
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
