package perf

import (
	"context"
	"fmt"
	"time"

	"github.com/ibs-source/es-producer/internal/log"
	"github.com/magiconair/properties"
	"github.com/redis/go-redis/v9"
)

// Redis sink property keys
const (
	PropRedisAddress        = "redis.address"
	PropRedisPassword       = "redis.password"
	PropRedisDB             = "redis.db"
	PropRedisStreamMaxLen   = "redis.stream.maxlen"
	PropRedisPayloadField   = "redis.payload.field"
	PropRedisDialTimeoutMs  = "redis.dial.timeout.ms"
	PropRedisWriteTimeoutMs = "redis.write.timeout.ms"
	PropRedisPingTimeoutMs  = "redis.ping.timeout.ms"
)

// redisSink appends every record to the stream named by the topic
type redisSink struct {
	rdb    *redis.Client
	maxLen int64
	field  string
}

func newRedisSink(ctx context.Context, p *properties.Properties, logger *log.Logger) (*redisSink, error) {
	addr := p.GetString(PropRedisAddress, "localhost:6379")
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     p.GetString(PropRedisPassword, ""),
		DB:           p.GetInt(PropRedisDB, 0),
		DialTimeout:  getMillis(p, PropRedisDialTimeoutMs, 5*time.Second),
		WriteTimeout: getMillis(p, PropRedisWriteTimeoutMs, 3*time.Second),
	})

	pingCtx, cancel := context.WithTimeout(ctx, getMillis(p, PropRedisPingTimeoutMs, 5*time.Second))
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Debug("Redis connected to %s", addr)

	maxLen := p.GetInt64(PropRedisStreamMaxLen, 0)
	if maxLen < 0 {
		maxLen = 0
	}
	return &redisSink{
		rdb:    rdb,
		maxLen: maxLen,
		field:  p.GetString(PropRedisPayloadField, "payload"),
	}, nil
}

// Send issues XADD, trimming approximately to maxLen when set
func (s *redisSink) Send(ctx context.Context, topic string, value []byte) error {
	args := &redis.XAddArgs{
		Stream: topic,
		Values: []interface{}{s.field, value},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd to stream %s failed: %w", topic, err)
	}
	return nil
}

func (s *redisSink) Close() error {
	return s.rdb.Close()
}
