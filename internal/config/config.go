package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Click store backends
const (
	ClickStoreRedis    = "redis"
	ClickStorePostgres = "postgres"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	CatalogFile      string        // path to the catalog.yaml file
	ReloadInterval   time.Duration // interval to reload catalog.yaml (default: 1h)
	WatchCatalog     bool          // true => reload on file change (fsnotify)
	WatchDebounce    time.Duration // delay coalescing file change events (default: 500ms)
	HistoryInterval  time.Duration // interval to prune snapshot history (default: 24h)
	HistoryRetention time.Duration // age after which old snapshots are pruned (default: 30d)
	ProbeTimeout     time.Duration // timeout for each link health probe (default: 3s)
	ProbeConcurrency int           // max concurrent link probes (default: 8)

	// Click tracking
	ClickStore          string        // "redis" | "postgres"
	PostgresDSN         string        // required when ClickStore == "postgres"
	TrackPersistTimeout time.Duration // timeout for each async click persist (default: 2s)
	TrackMaxInFlight    int           // max concurrent click persists (default: 64)
	ClickRateBurst      int           // click requests allowed in a burst per client IP (default: 30)
	ClickRatePerMin     int           // click requests refilled per minute per client IP (default: 60)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts   []string // optional, restrict admin access to specific Host headers
	AllowedCIDRS   []string // optional, restrict admin access to specific IP (e.g. "1.2.3.4, 10.0.0.0/8")
	AllowedOrigins []string // CORS origins allowed to call the API ("*" = any)
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("ONESHOP_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("ONESHOP_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("ONESHOP_LOG_LEVEL", "info"),
		PrettyLog: mustBool("ONESHOP_PRETTY_LOG", true),

		// Catalog file
		CatalogFile:      getenv("ONESHOP_CATALOG_FILE", "/app/catalog.yaml"),
		ReloadInterval:   mustDuration("ONESHOP_RELOAD_INTERVAL", time.Hour),
		WatchCatalog:     mustBool("ONESHOP_WATCH_CATALOG", true),
		WatchDebounce:    mustDuration("ONESHOP_WATCH_DEBOUNCE", 500*time.Millisecond),
		HistoryInterval:  mustDuration("ONESHOP_HISTORY_INTERVAL", 24*time.Hour),
		HistoryRetention: mustDuration("ONESHOP_HISTORY_RETENTION", 30*24*time.Hour),
		ProbeTimeout:     mustDuration("ONESHOP_PROBE_TIMEOUT", 3*time.Second),
		ProbeConcurrency: getenvInt("ONESHOP_PROBE_CONCURRENCY", 8),

		// Click tracking
		ClickStore:          strings.ToLower(getenv("ONESHOP_CLICK_STORE", "redis")),
		PostgresDSN:         getenv("ONESHOP_POSTGRES_DSN", ""),
		TrackPersistTimeout: mustDuration("ONESHOP_TRACK_TIMEOUT", 2*time.Second),
		TrackMaxInFlight:    getenvInt("ONESHOP_TRACK_MAX_IN_FLIGHT", 64),
		ClickRateBurst:      getenvInt("ONESHOP_CLICK_RATE_BURST", 30),
		ClickRatePerMin:     getenvInt("ONESHOP_CLICK_RATE_PER_MIN", 60),

		// Redis settings
		RedisAddr:             requireEnv("ONESHOP_REDIS_ADDR"),
		RedisUser:             getenv("ONESHOP_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("ONESHOP_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("ONESHOP_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("ONESHOP_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("ONESHOP_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseAllowedIPs(getenv("ONESHOP_ALLOWED_CIDRS", "")),
		AllowedOrigins: splitAndTrim(getenv("ONESHOP_ALLOWED_ORIGINS", "*")),
		TrustProxy:     mustBool("ONESHOP_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: ONESHOP_REDIS_PASSWORD is required when ONESHOP_REDIS_PASSWORD_REQUIRED=true")
	}

	switch cfg.ClickStore {
	case ClickStoreRedis:
	case ClickStorePostgres:
		if cfg.PostgresDSN == "" {
			panic("❌ FATAL: ONESHOP_POSTGRES_DSN is required when ONESHOP_CLICK_STORE=postgres")
		}
	default:
		panic(fmt.Sprintf("❌ FATAL: Invalid ONESHOP_CLICK_STORE %q (want redis or postgres)", cfg.ClickStore))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		if cfg.PostgresDSN != "" {
			cfgCopy.PostgresDSN = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
