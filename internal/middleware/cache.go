package middleware

import (
    "context"
    "crypto/sha256"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/movie-store/internal/config"
)

// cachedResponse is the envelope stored in Redis for a cacheable
// response. Body is base64 encoded by encoding/json.
type cachedResponse struct {
    Status int         `json:"status"`
    Header http.Header `json:"header"`
    Body   []byte      `json:"body"`
}

// bodyRecorder tees the response body into a buffer, up to limit bytes,
// while streaming it to the client. A response that overflows the limit
// is marked oversized and never cached.
type bodyRecorder struct {
    http.ResponseWriter
    status    int
    body      []byte
    limit     int
    oversized bool
}

func (br *bodyRecorder) WriteHeader(code int) {
    br.status = code
    br.ResponseWriter.WriteHeader(code)
}

func (br *bodyRecorder) Write(b []byte) (int, error) {
    if !br.oversized {
        if br.limit > 0 && len(br.body)+len(b) > br.limit {
            br.oversized = true
        } else {
            br.body = append(br.body, b...)
        }
    }
    return br.ResponseWriter.Write(b)
}

// cacheKey derives a stable Redis key from the route and, depending on
// the strategy, the method and query string. The variable part is
// hashed so keys stay short regardless of query length.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
    var raw string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        raw = c.Path()
    case "method_route":
        raw = c.Request().Method + " " + c.Path()
    case "method_route_query":
        raw = c.Request().Method + " " + c.Path() + "?" + c.Request().URL.RawQuery
    default: // route_query
        raw = c.Path() + "?" + c.Request().URL.RawQuery
    }
    sum := sha256.Sum256([]byte(raw))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:16])
}

// NewRedisCache returns a response cache middleware for the catalog
// endpoints. Whole responses (status, headers, body) are stored so a
// hit is byte-identical to the original. Only configured methods are
// considered, only 200 responses are stored, and requests carrying an
// Authorization header bypass the cache entirely. With caching disabled
// or no Redis client available the middleware is a passthrough.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }
            if c.Request().Header.Get("Authorization") != "" {
                return next(c)
            }

            ctx := c.Request().Context()
            key := cacheKey(cfg, c)

            if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var cached cachedResponse
                if json.Unmarshal(raw, &cached) == nil {
                    for k, vals := range cached.Header {
                        if strings.EqualFold(k, "Content-Length") {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(cached.Status)
                    _, _ = c.Response().Write(cached.Body)
                    return nil
                }
            }

            rec := &bodyRecorder{
                ResponseWriter: c.Response().Writer,
                status:         http.StatusOK,
                limit:          cfg.MaxBodyBytes,
            }
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if rec.status == http.StatusOK && !rec.oversized {
                cached := cachedResponse{
                    Status: rec.status,
                    Header: c.Response().Header().Clone(),
                    Body:   rec.body,
                }
                if raw, err := json.Marshal(cached); err == nil {
                    // Detached context: the store must not be cut short
                    // by the request ending.
                    _ = rdb.SetEx(context.Background(), key, raw, ttl).Err()
                }
            }
            return nil
        }
    }
}
