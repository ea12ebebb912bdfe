package config

import (
    "context"
    "os"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client for response caching and rate
// limiting from the environment:
//
//   REDIS_URL                – full redis:// URL, takes precedence
//   REDIS_HOST / REDIS_PORT  – host and port (default localhost:6379)
//   REDIS_PASSWORD           – optional password
//   REDIS_DB                 – database number (default 0)
//
// Redis is optional infrastructure here: when the server cannot be
// reached at startup the function returns nil and the caller disables
// caching and rate limiting instead of failing.
func NewRedisClient() *redis.Client {
    var opts *redis.Options
    if url := os.Getenv("REDIS_URL"); url != "" {
        parsed, err := redis.ParseURL(url)
        if err != nil {
            return nil
        }
        opts = parsed
    } else {
        host := os.Getenv("REDIS_HOST")
        if host == "" {
            host = "localhost"
        }
        port := os.Getenv("REDIS_PORT")
        if port == "" {
            port = "6379"
        }
        db := 0
        if s := os.Getenv("REDIS_DB"); s != "" {
            if n, err := strconv.Atoi(s); err == nil {
                db = n
            }
        }
        opts = &redis.Options{
            Addr:     host + ":" + port,
            Password: os.Getenv("REDIS_PASSWORD"),
            DB:       db,
        }
    }

    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
