package cache

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// Redis keeps rates in a shared Redis instance. Reads that fail for any
// reason other than a missing key are treated as a miss.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	writes atomic.Int64
}

// RedisOption configures a Redis cache.
type RedisOption func(*Redis)

// WithTTL sets how long shared rates live. Zero keeps them until evicted.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

func WithLogger(logger *slog.Logger) RedisOption {
	return func(r *Redis) {
		r.logger = logger
	}
}

// NewRedis connects to addr, a URL such as redis://:secret@localhost:6379/2.
func NewRedis(ctx context.Context, addr string, options ...RedisOption) (*Redis, error) {
	opts, err := parseRedisURL(addr)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "connect to redis at %s", opts.Addr)
	}

	r := &Redis{
		client: client,
		ttl:    24 * time.Hour,
		logger: slog.Default(),
	}
	for _, option := range options {
		option(r)
	}
	return r, nil
}

// parseRedisURL accepts redis://[:password@]host[:port][/db] and
// unix://[:password@]/path/to/socket[?db=N].
func parseRedisURL(addr string) (*redis.Options, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}

	var passwd string
	if u.User != nil {
		passwd, _ = u.User.Password()
	}

	if u.Scheme == "unix" {
		if u.Path == "" {
			return nil, errors.Newf("redis url %q has no socket path", addr)
		}
		db := 0
		if s := u.Query().Get("db"); s != "" {
			if db, err = strconv.Atoi(s); err != nil {
				return nil, errors.Wrapf(err, "redis db in %q", addr)
			}
		}
		return &redis.Options{Network: "unix", Addr: u.Path, Password: passwd, DB: db}, nil
	}

	if u.Host == "" {
		return nil, errors.Newf("redis url %q has no host", addr)
	}
	db := 0
	if 1 < len(u.Path) {
		db, err = strconv.Atoi(u.Path[1:])
		if err != nil {
			return nil, errors.Wrapf(err, "redis db in %q", addr)
		}
	}
	return &redis.Options{
		Network:  "tcp",
		Addr:     u.Host,
		Password: passwd,
		DB:       db,
	}, nil
}

func (r *Redis) Get(ctx context.Context, code string) (float64, bool) {
	rate, err := r.client.Get(ctx, Key("rates", normalizeCode(code))).Float64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis rate read failed", "currency", code, "error", err)
		}
		return 0, false
	}
	return rate, true
}

func (r *Redis) Set(ctx context.Context, code string, rate float64) error {
	key := Key("rates", normalizeCode(code))
	if err := r.client.Set(ctx, key, strconv.FormatFloat(rate, 'f', -1, 64), r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "store rate for %s", code)
	}
	r.writes.Add(1)
	return nil
}

// Len reports how many rates this process has written.
func (r *Redis) Len() int {
	return int(r.writes.Load())
}

func (r *Redis) Close() error {
	return r.client.Close()
}
