package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Strings cover identifiers and secrets,
// ints cover durations.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign bearer tokens
	AccessTTLMin   int    // access token time-to-live in minutes
	GatewayURL     string // payment gateway base URL (optional; intent endpoint disabled when empty)
	GatewayKey     string // payment gateway API key (optional)
	Currency       string // currency used for payment intents
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),                  // environment (dev/test/prod)
		Port:         must("APP_PORT"),                 // port to bind the HTTP server
		DBUser:       must("DB_USER"),                  // database user
		DBPass:       os.Getenv("DB_PASS"),             // database password (empty allowed)
		DBHost:       must("DB_HOST"),                  // database host
		DBPort:       must("DB_PORT"),                  // database port
		DBName:       must("DB_NAME"),                  // database name
		JWTSecret:    must("JWT_SECRET"),               // secret used for signing tokens
		AccessTTLMin: intOr("ACCESS_TOKEN_TTL_MIN", 60), // tokens are valid for one hour unless overridden
		GatewayURL:   os.Getenv("PAYMENT_GATEWAY_URL"), // payment gateway endpoint
		GatewayKey:   os.Getenv("PAYMENT_GATEWAY_KEY"), // payment gateway credential
		Currency:     strOr("PAYMENT_CURRENCY", "usd"), // fixed intent currency
	}
}

// RateLimitConfig sizes the per-client token bucket applied in front
// of every route. Requests are keyed by client IP and route; refill is
// one step of RefillTokens per RefillInterval.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadRateLimitConfig reads the rate limiter settings. The bucket
// state TTL is kept well above the refill interval so idle buckets
// expire without ever resetting an active one.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        boolOr("RATE_LIMIT_ENABLED", true),
		Capacity:       intOr("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   intOr("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: durOr("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            durOr("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         strOr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if min := 5 * cfg.RefillInterval; cfg.TTL < min {
		cfg.TTL = min
	}
	return cfg
}

// CatalogCacheConfig controls the Redis response cache in front of the
// public class catalog. The catalog is the only cached surface: it is
// read by every learner and changes only when moderation approves a
// class, so a short TTL is enough.
type CatalogCacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCatalogCacheConfig reads the catalog cache settings.
func LoadCatalogCacheConfig() CatalogCacheConfig {
	return CatalogCacheConfig{
		Enabled:      boolOr("CATALOG_CACHE_ENABLED", true),
		TTL:          durOr("CATALOG_CACHE_TTL", 30*time.Second),
		Prefix:       strOr("CATALOG_CACHE_PREFIX", "catalog"),
		MaxBodyBytes: intOr("CATALOG_CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// strOr retrieves an optional environment variable, falling back to a
// default when unset or empty.
func strOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intOr is like strOr but converts the value into an integer. Invalid
// values are fatal rather than silently defaulted.
func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

// boolOr parses an optional boolean variable; invalid values are fatal.
func boolOr(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("invalid bool for %s: %q", key, v)
	}
	return b
}

// durOr parses an optional duration variable (e.g. "30s"); invalid
// values are fatal.
func durOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}
