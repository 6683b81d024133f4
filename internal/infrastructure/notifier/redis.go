package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/janhq/jan-crm/internal/domain/notify"
)

const flashKeyPrefix = "crm:flash:v1:"

// RedisFlash is a FlashStore shared by every replica, one list per session.
type RedisFlash struct {
	client   redis.UniversalClient
	capacity int
	ttl      time.Duration
}

var _ FlashStore = (*RedisFlash)(nil)

// NewRedisFlash connects to redisURL, a single URL or a comma separated list of
// cluster addresses, and pings it.
func NewRedisFlash(ctx context.Context, redisURL string, capacity int, ttl time.Duration) (*RedisFlash, error) {
	opts, err := universalOptions(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewUniversalClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisFlash{client: client, capacity: capacity, ttl: ttl}, nil
}

func universalOptions(raw string) (*redis.UniversalOptions, error) {
	opts := &redis.UniversalOptions{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "://") {
			opts.Addrs = append(opts.Addrs, part)
			continue
		}
		parsed, err := redis.ParseURL(part)
		if err != nil {
			return nil, err
		}
		opts.Addrs = append(opts.Addrs, parsed.Addr)
		if opts.Username == "" {
			opts.Username = parsed.Username
		}
		if opts.Password == "" {
			opts.Password = parsed.Password
		}
		if opts.DB == 0 {
			opts.DB = parsed.DB
		}
		if opts.TLSConfig == nil {
			opts.TLSConfig = parsed.TLSConfig
		}
	}
	if len(opts.Addrs) == 0 {
		return nil, fmt.Errorf("no redis addresses provided")
	}
	if len(opts.Addrs) > 1 {
		opts.DB = 0
	}
	return opts, nil
}

func flashKey(key string) string {
	return flashKeyPrefix + key
}

func (f *RedisFlash) Push(ctx context.Context, key string, n notify.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	k := flashKey(key)
	pipe := f.client.TxPipeline()
	pipe.RPush(ctx, k, data)
	pipe.LTrim(ctx, k, int64(-f.capacity), -1)
	if f.ttl > 0 {
		pipe.Expire(ctx, k, f.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push flash: %w", err)
	}
	return nil
}

func (f *RedisFlash) Drain(ctx context.Context, key string) ([]notify.Notification, error) {
	k := flashKey(key)
	pipe := f.client.TxPipeline()
	entries := pipe.LRange(ctx, k, 0, -1)
	pipe.Del(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("drain flash: %w", err)
	}

	raw := entries.Val()
	out := make([]notify.Notification, 0, len(raw))
	for _, entry := range raw {
		var n notify.Notification
		if err := json.Unmarshal([]byte(entry), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// Close releases the connection pool.
func (f *RedisFlash) Close() error {
	return f.client.Close()
}
