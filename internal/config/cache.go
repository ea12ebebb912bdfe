package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// CacheConfig controls the catalog response cache. Methods lists the
// HTTP methods eligible for caching; MaxBodyBytes caps the size of a
// single cached response so an oversized listing cannot crowd Redis.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads the CACHE_* environment variables, falling back
// to defaults suited to the catalog endpoints: GET only, 30 second TTL,
// keys derived from route plus query string.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      methodSet(envStr("CACHE_METHODS", "GET")),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       envStr("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}

func methodSet(s string) map[string]bool {
    out := map[string]bool{}
    for _, m := range strings.Split(s, ",") {
        m = strings.ToUpper(strings.TrimSpace(m))
        if m != "" {
            out[m] = true
        }
    }
    return out
}

// Shared env helpers for the optional-infrastructure configs. The
// required variables in Load() use must() instead; these all have
// usable defaults.

func envStr(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        return def
    }
    return n
}

func envBool(key string, def bool) bool {
    switch strings.ToLower(os.Getenv(key)) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return def
}

func envDur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        return def
    }
    return d
}
