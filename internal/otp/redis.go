package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	codeKeyPattern     = "%sotp:code:%s"
	attemptsKeyPattern = "%sotp:attempts:%s"
)

var redisCompareAndDeleteScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then
  return 0
end
if v == ARGV[1] then
  redis.call("DEL", KEYS[1], KEYS[2])
  return 1
end
return -1
`)

var redisIncrAttemptsScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisStore keeps codes in redis using native key expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a RedisStore. prefix is prepended to every key.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) codeKey(key string) string {
	return fmt.Sprintf(codeKeyPattern, s.prefix, key)
}

func (s *RedisStore) attemptsKey(key string) string {
	return fmt.Sprintf(attemptsKeyPattern, s.prefix, key)
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key, code string, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.codeKey(key), code, ttl)
		pipe.Del(ctx, s.attemptsKey(key))

		return nil
	})
	if err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	return nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	code, err := s.client.Get(ctx, s.codeKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("get otp: %w", err)
	}

	return code, true, nil
}

// CompareAndDelete implements Store with a single Lua script.
func (s *RedisStore) CompareAndDelete(ctx context.Context, key, code string) (Compare, error) {
	res, err := redisCompareAndDeleteScript.Run(
		ctx,
		s.client,
		[]string{s.codeKey(key), s.attemptsKey(key)},
		code,
	).Int()
	if err != nil {
		return Missing, fmt.Errorf("compare otp: %w", err)
	}

	switch res {
	case 1:
		return Match, nil
	case -1:
		return Mismatch, nil
	default:
		return Missing, nil
	}
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.codeKey(key), s.attemptsKey(key)).Err(); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}

	return nil
}

// IncrAttempts implements Store.
func (s *RedisStore) IncrAttempts(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := redisIncrAttemptsScript.Run(
		ctx,
		s.client,
		[]string{s.attemptsKey(key)},
		ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("count otp attempt: %w", err)
	}

	return n, nil
}
