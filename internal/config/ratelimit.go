package config

import (
    "os"
    "strings"
    "time"
)

// RateLimitConfig controls the Redis token-bucket middleware.  The
// bucket is shared across server instances because the state lives in
// Redis, which keeps abusive checkout retries bounded even behind a
// load balancer.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig.  Defaults allow roughly one request per second per
// client with a short burst, which is plenty for cart interactions.
func LoadRateLimitConfig() RateLimitConfig {
    return RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       atoi(getenv("RATE_LIMIT_CAPACITY", "20")),
        RefillTokens:   atoi(getenv("RATE_LIMIT_REFILL_TOKENS", "1")),
        RefillInterval: parseDur(getenv("RATE_LIMIT_REFILL_INTERVAL", "1s")),
        TTL:            parseDur(getenv("RATE_LIMIT_TTL", "10m")),
        KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "ip_user"),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "ratelimit"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
}

// envBool parses a boolean environment variable, accepting "true"/"1"
// case-insensitively and falling back to def when unset.
func envBool(key string, def bool) bool {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    return strings.EqualFold(v, "true") || v == "1"
}
