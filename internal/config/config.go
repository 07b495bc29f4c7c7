package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

const (
	DefaultSearchURL  = "https://chatgpt.com/?q={query}"
	searchPlaceholder = "{query}"
)

type Config struct {
	ListenAddr      string        // ex: "127.0.0.1:7878"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DataDir       string // directory holding data.json, commands.yaml, usage.json, quicklink.db
	StoreBackend  string // "file" | "sqlite" | "redis"
	SeedFromFiles bool   // copy data dir files into an empty sqlite/redis store on startup
	KeyFile       string // secretbox key for encrypted items

	SearchURL       string // web search fallback, must contain {query}
	ResultLimit     int    // max results per query (default: 6)
	IncludeBuiltins bool   // offer built-in commands in browse mode

	DirCacheTTL      time.Duration // directory listing cache lifetime (default: 30s)
	DirMaxCacheItems int           // max files collected per listing (default: 200)
	DirWorkers       int           // concurrent directory scans (default: 4)
	WatchDirectories bool          // invalidate listings on fsnotify events

	UsageFlushDelay    time.Duration // debounce before usage is written (default: 2s)
	ReloadInterval     time.Duration // store -> memory index reload (default: 5m)
	CachePruneInterval time.Duration // expired listing eviction (default: 1m)

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // restrict API access to these IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers

	RateLimitBurst  int // token bucket size for mutation routes
	RateLimitPerMin int // refill rate for mutation routes
}

func Load() *Config {
	dataDir := getenv("QUICKLINK_DATA_DIR", defaultDataDir())

	cfg := &Config{
		// Server settings
		ListenAddr:      getenv("QUICKLINK_LISTEN_ADDR", "127.0.0.1:7878"),
		ShutdownTimeout: mustDuration("QUICKLINK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("QUICKLINK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("QUICKLINK_PRETTY_LOG", true),

		// Storage
		DataDir:       dataDir,
		StoreBackend:  strings.ToLower(getenv("QUICKLINK_STORE_BACKEND", BackendFile)),
		SeedFromFiles: mustBool("QUICKLINK_SEED_FROM_FILES", true),
		KeyFile:       getenv("QUICKLINK_ENCRYPTION_KEY_FILE", filepath.Join(dataDir, "secret.key")),

		// Search
		SearchURL:       getenv("QUICKLINK_SEARCH_URL", DefaultSearchURL),
		ResultLimit:     getenvInt("QUICKLINK_RESULT_LIMIT", 6),
		IncludeBuiltins: mustBool("QUICKLINK_INCLUDE_BUILTINS", true),

		// Directory commands
		DirCacheTTL:      mustDuration("QUICKLINK_DIR_CACHE_TTL", 30*time.Second),
		DirMaxCacheItems: getenvInt("QUICKLINK_DIR_MAX_CACHE_ITEMS", 200),
		DirWorkers:       getenvInt("QUICKLINK_DIR_WORKERS", 4),
		WatchDirectories: mustBool("QUICKLINK_WATCH_DIRECTORIES", false),

		// Background jobs
		UsageFlushDelay:    mustDuration("QUICKLINK_USAGE_FLUSH_DELAY", 2*time.Second),
		ReloadInterval:     mustDuration("QUICKLINK_RELOAD_INTERVAL", 5*time.Minute),
		CachePruneInterval: mustDuration("QUICKLINK_CACHE_PRUNE_INTERVAL", time.Minute),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("QUICKLINK_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("QUICKLINK_ALLOWED_CIDRS", "127.0.0.1/32,::1/128")),
		TrustProxy:   mustBool("QUICKLINK_TRUST_PROXY", false),

		RateLimitBurst:  getenvInt("QUICKLINK_RATE_LIMIT_BURST", 120),
		RateLimitPerMin: getenvInt("QUICKLINK_RATE_LIMIT_PER_MIN", 600),
	}

	switch cfg.StoreBackend {
	case BackendFile, BackendSQLite:
	case BackendRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: QUICKLINK_STORE_BACKEND must be one of file, sqlite, redis (got %q)", cfg.StoreBackend))
	}

	if !strings.Contains(cfg.SearchURL, searchPlaceholder) {
		panic(fmt.Sprintf("❌ FATAL: QUICKLINK_SEARCH_URL must contain %s", searchPlaceholder))
	}
	if cfg.ResultLimit <= 0 {
		panic("❌ FATAL: QUICKLINK_RESULT_LIMIT must be > 0")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// loadRedis fills the Redis settings; only the redis backend requires them.
func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("QUICKLINK_REDIS_ADDR")
	cfg.RedisUser = getenv("QUICKLINK_REDIS_USERNAME", "")
	cfg.RedisPassword = getenv("QUICKLINK_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("QUICKLINK_REDIS_DB")
	cfg.RedisDT = mustDuration("QUICKLINK_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("QUICKLINK_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("QUICKLINK_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("QUICKLINK_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("QUICKLINK_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("QUICKLINK_REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("QUICKLINK_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("QUICKLINK_REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("QUICKLINK_REDIS_WARN_THRESHOLD", 3)
}

// defaultDataDir mirrors the desktop app's location: <config dir>/QuickLink.
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "QuickLink")
	}
	return "QuickLink"
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
