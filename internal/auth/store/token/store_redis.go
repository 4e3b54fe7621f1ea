package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bazar/internal/platform/metrics"
	id "bazar/pkg/domain"
	"bazar/pkg/platform/sentinel"
)

const sessionKeyPrefix = "bazar:session:"

// RedisStore keeps one session's values in a Redis hash. Every write pushes the
// hash expiry out by the session TTL, so values never outlive an idle session.
type RedisStore struct {
	client    *redis.Client
	key       string
	ttl       time.Duration
	sessionID id.SessionID
	metrics   *metrics.Metrics
}

// NewRedisStore binds a store to one session.
func NewRedisStore(client *redis.Client, sessionID id.SessionID, ttl time.Duration, opts ...Option) *RedisStore {
	o := applyOptions(opts)
	return &RedisStore{
		client:    client,
		key:       sessionKeyPrefix + sessionID.String(),
		ttl:       ttl,
		sessionID: sessionID,
		metrics:   o.metrics,
	}
}

// SessionID returns the session this store is bound to.
func (s *RedisStore) SessionID() id.SessionID {
	return s.sessionID
}

// Set stores value under kind. An empty value removes the field.
func (s *RedisStore) Set(ctx context.Context, kind Kind, value string) error {
	return s.SetMany(ctx, map[Kind]string{kind: value})
}

// SetMany writes all fields and the expiry in one MULTI/EXEC transaction.
func (s *RedisStore) SetMany(ctx context.Context, values map[Kind]string) error {
	defer s.observe("set_many", time.Now())

	fields := make([]any, 0, len(values)*2)
	var removed []string
	for kind, value := range values {
		if !kind.Valid() {
			return fmt.Errorf("unknown token kind %q", kind)
		}
		if value == "" {
			removed = append(removed, string(kind))
			continue
		}
		fields = append(fields, string(kind), value)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(removed) > 0 {
			pipe.HDel(ctx, s.key, removed...)
		}
		if len(fields) > 0 {
			pipe.HSet(ctx, s.key, fields...)
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write session values: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, kind Kind) (string, error) {
	defer s.observe("get", time.Now())

	value, err := s.client.HGet(ctx, s.key, string(kind)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%s: %w", kind, sentinel.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", kind, errors.Join(sentinel.ErrUnavailable, err))
	}
	return value, nil
}

func (s *RedisStore) Clear(ctx context.Context, kinds ...Kind) error {
	defer s.observe("clear", time.Now())
	if len(kinds) == 0 {
		return nil
	}
	fields := make([]string, len(kinds))
	for i, kind := range kinds {
		fields[i] = string(kind)
	}
	if err := s.client.HDel(ctx, s.key, fields...).Err(); err != nil {
		return fmt.Errorf("clear session values: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (s *RedisStore) ClearAll(ctx context.Context) error {
	defer s.observe("clear_all", time.Now())
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (s *RedisStore) observe(op string, start time.Time) {
	s.metrics.ObserveTokenStore(op, time.Since(start).Seconds())
}
