// Package gifcache keeps finished animations in Redis so repeated requests
// for the same game and options skip the render entirely.
package gifcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const ttlAnimation = 24 * time.Hour

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = ttlAnimation
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) key(fingerprint string) string { return "gif:" + fingerprint }

// Fingerprint hashes the parts into a stable cache key. Parts are length
// prefixed, so ("ab","c") and ("a","bc") never collide.
func Fingerprint(parts ...string) string {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached animation, or ok=false on a miss.
func (c *Cache) Get(ctx context.Context, fingerprint string) ([]byte, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (c *Cache) Set(ctx context.Context, fingerprint string, data []byte) error {
	return c.rdb.Set(ctx, c.key(fingerprint), data, c.ttl).Err()
}
