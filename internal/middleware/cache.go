package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/dorm-booking/internal/config"
)

// BrowseCache caches public listing responses in Redis.  Entries are keyed
// under a generation number; Invalidate bumps the generation so every
// older entry stops matching and ages out through its TTL.
type BrowseCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

// NewBrowseCache returns a cache that is inert when rdb is nil or caching
// is disabled.
func NewBrowseCache(cfg config.CacheConfig, rdb *redis.Client) *BrowseCache {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return &BrowseCache{cfg: cfg, rdb: rdb}
}

func (b *BrowseCache) enabled() bool { return b != nil && b.cfg.Enabled && b.rdb != nil }

func (b *BrowseCache) genKey() string { return b.cfg.Prefix + ":gen" }

// Invalidate drops every cached listing.
func (b *BrowseCache) Invalidate(ctx context.Context) error {
	if !b.enabled() {
		return nil
	}
	return b.rdb.Incr(ctx, b.genKey()).Err()
}

func (b *BrowseCache) key(ctx context.Context, c echo.Context) (string, error) {
	gen, err := b.rdb.Get(ctx, b.genKey()).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery + "#" + strings.Join(c.ParamValues(), "/")))
	return fmt.Sprintf("%s:%d:%x", b.cfg.Prefix, gen, sum[:]), nil
}

// Middleware serves GET requests from the cache and stores successful
// responses.
func (b *BrowseCache) Middleware() echo.MiddlewareFunc {
	if !b.enabled() {
		return passThrough
	}
	maxBody := int64(b.cfg.MaxBodyBytes)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key, err := b.key(ctx, c)
			if err != nil {
				c.Logger().Warnf("browse cache: %v", err)
				return next(c)
			}

			if bs, err := b.rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				_ = b.rdb.SetEx(context.Background(), key, payload, b.cfg.TTL).Err()
			}
			return nil
		}
	}
}

// captureWriter copies the response body while forwarding it.
type captureWriter struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	limit     int64
	truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(p []byte) (int, error) {
	if !cw.truncated {
		if cw.limit > 0 && int64(cw.buf.Len()+len(p)) > cw.limit {
			cw.truncated = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(p)
		}
	}
	return cw.ResponseWriter.Write(p)
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdr)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	copy(out[8:], hdr)
	copy(out[8+len(hdr):], body)
	return out, nil
}

func decodePayload(bs []byte) (int, http.Header, []byte, bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status := int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	hdr := http.Header{}
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, hdr, bs[8+hlen:], true
}
