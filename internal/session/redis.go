package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"readbrief/internal/domain"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "readbrief:session:"

// RedisStore shares sessions between bot replicas. Redis expires the keys,
// so PurgeExpired has nothing to do.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err = rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping redis: %w", err), rdb.Close())
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (s *RedisStore) Get(ctx context.Context, userID string) (domain.Session, bool, error) {
	if userID == "" {
		return domain.Session{}, false, nil
	}

	data, err := s.rdb.Get(ctx, redisKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("get session: %w", err)
	}

	session, err := decodeSession(data)
	if err != nil {
		return domain.Session{}, false, err
	}

	return session, true, nil
}

func (s *RedisStore) Put(ctx context.Context, session domain.Session) error {
	if session.UserID == "" {
		return errors.New("user ID is empty")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err = s.rdb.Set(ctx, redisKey(session.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}

	return nil
}

func (s *RedisStore) PurgeExpired(context.Context) (int, error) {
	return 0, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func redisKey(userID string) string {
	return redisKeyPrefix + userID
}

func decodeSession(data []byte) (domain.Session, error) {
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	return session, nil
}
