package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/tropictalks/classhub/internal/config"
)

// cachedResponse is the stored form of a catalog reply. Headers are
// kept so a hit serves byte-for-byte what the handler produced.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// bodyRecorder tees the response body into a buffer up to a size cap
// while still streaming it to the client.
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	overflow bool
	cap      int
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	if !w.overflow {
		if w.buf.Len()+len(b) > w.cap {
			w.overflow = true
			w.buf.Reset()
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// CatalogCache caches GET responses for the public class catalog in
// Redis. The catalog changes only when moderation approves a class, so
// stale reads within the TTL are acceptable. Oversized and non-200
// responses pass through uncached, and a nil client disables caching.
func CatalogCache(cfg config.CatalogCacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := catalogKey(cfg.Prefix, c)
			if raw, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil {
					for k, vals := range cached.Header {
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(cached.Status)
					_, err := c.Response().Write(cached.Body)
					return err
				}
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, cap: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK && !rec.overflow {
				payload, err := json.Marshal(cachedResponse{
					Status: rec.status,
					Header: c.Response().Header().Clone(),
					Body:   rec.buf.Bytes(),
				})
				if err == nil {
					// Detached context: the client may already be gone.
					_ = rdb.SetEx(context.Background(), key, payload, cfg.TTL).Err()
				}
			}
			return nil
		}
	}
}

// catalogKey hashes path and query so variants like sorted listings
// cache independently under one prefix.
func catalogKey(prefix string, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum)
}
