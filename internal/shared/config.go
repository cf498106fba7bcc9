package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	APIURL     string
	APIRPS     int
	APIRetries int
	APITimeout time.Duration

	MySQLDSN  string // optional; enables the audit journal
	RedisAddr string
	RedisDB   int
	RedisPass string

	SessionBackend string // file|redis|memory
	SessionFile    string
	SessionKey     string

	CacheTTL       time.Duration
	SharedCache    bool // CLI and seeder use the gateway's Redis cache and evict it on writes
	PageSize       int
	SearchDebounce time.Duration

	AdminEmail    string
	AdminPassword string
	SeedWorkers   int
}

// Load reads the environment, after an optional .env in the working directory.
func Load() Config {
	_ = godotenv.Load()

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		APIURL:         strings.TrimRight(env("API_URL", env("NEXT_PUBLIC_API_URL", "http://localhost:8000")), "/"),
		APIRPS:         atoi("API_RPS", 10),
		APIRetries:     atoi("API_RETRIES", 3),
		APITimeout:     time.Duration(atoi("API_TIMEOUT_SECONDS", 20)) * time.Second,
		MySQLDSN:       env("MYSQL_DSN", ""),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		SessionBackend: strings.ToLower(env("SESSION_BACKEND", "file")),
		SessionFile:    env("SESSION_FILE", ""),
		SessionKey:     env("SESSION_REDIS_KEY", "vayada:admin:session"),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
		SharedCache:    truthy(env("SHARED_CACHE", "false")),
		PageSize:       atoi("PAGE_SIZE", 20),
		SearchDebounce: time.Duration(atoi("SEARCH_DEBOUNCE_MS", 500)) * time.Millisecond,
		AdminEmail:     env("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:  env("ADMIN_PASSWORD", "admin123"),
		SeedWorkers:    atoi("SEED_WORKERS", 1),
	}
	if c.PageSize <= 0 {
		log.Warn().Int("page_size", c.PageSize).Msg("PAGE_SIZE must be positive, using 20")
		c.PageSize = 20
	}
	if c.SeedWorkers <= 0 {
		c.SeedWorkers = 1
	}
	switch c.SessionBackend {
	case "file", "redis", "memory":
	default:
		log.Warn().Str("backend", c.SessionBackend).Msg("unknown SESSION_BACKEND, using file")
		c.SessionBackend = "file"
	}
	return c
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
