package config

import "time"

// RateLimitConfig controls the Redis token-bucket limiter applied to
// mutating endpoints (booking requests, issue reports, facility creation).
// Read endpoints are left unlimited; the limiter exists to stop a single
// client from flooding the approval queue, not to shape general traffic.
type RateLimitConfig struct {
    Enabled        bool          // master switch
    Capacity       int           // bucket size (burst)
    RefillTokens   int           // tokens added per interval
    RefillInterval time.Duration // refill cadence
    TTL            time.Duration // idle expiry of bucket state in Redis
    KeyStrategy    string        // which request parts form the bucket key
    Prefix         string        // key namespace in Redis
    Debug          bool          // log limiter decisions
}

// LoadRateLimitConfig builds a RateLimitConfig from the environment and
// clamps the values into a sane range: at least one token of capacity, a
// positive refill interval, and a TTL long enough to outlive several
// refill cycles so bucket state is not evicted mid-window.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        getenv("RATE_LIMIT_ENABLED", "true") == "true",
        Capacity:       atoi(getenv("RATE_LIMIT_CAPACITY", "30")),
        RefillTokens:   atoi(getenv("RATE_LIMIT_REFILL_TOKENS", "1")),
        RefillInterval: parseDur(getenv("RATE_LIMIT_REFILL_INTERVAL", "1s")),
        TTL:            parseDur(getenv("RATE_LIMIT_TTL", "10m")),
        KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "fms:rl"),
        Debug:          getenv("RATE_LIMIT_DEBUG", "false") == "true",
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
    if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
        cfg.TTL = minTTL
    }
    return cfg
}
