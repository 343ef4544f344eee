package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrRedisUnavailable = errors.New("redis unavailable")

// RedisSessionRepo keeps one key per session plus a set of session IDs per
// user, so a single session and all sessions of a user can both be dropped.
type RedisSessionRepo struct {
	client *redis.Client
	prefix string
}

func NewRedisSessionRepo(client *redis.Client, prefix string) *RedisSessionRepo {
	if prefix == "" {
		prefix = "tenantdash"
	}
	return &RedisSessionRepo{client: client, prefix: prefix}
}

func (r *RedisSessionRepo) key(sessionID string) string {
	return r.prefix + ":sess:" + sessionID
}

func (r *RedisSessionRepo) userKey(userID string) string {
	return r.prefix + ":user:" + userID
}

func (r *RedisSessionRepo) Create(s *Session) error {
	if err := s.Validate(); err != nil {
		return err
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	ctx := context.TODO()
	userKey := r.userKey(s.User.ID)
	current, err := r.client.PTTL(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// the user set lives as long as its longest-lived session
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(s.ID), data, ttl)
		pipe.SAdd(ctx, userKey, s.ID)
		if current < ttl {
			pipe.PExpire(ctx, userKey, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (r *RedisSessionRepo) IsValid(sessionID string) (bool, error) {
	n, err := r.client.Exists(context.TODO(), r.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n == 1, nil
}

// Get loads a stored session. Missing or expired sessions yield ErrNotFound.
func (r *RedisSessionRepo) Get(sessionID string) (*Session, error) {
	data, err := r.client.Get(context.TODO(), r.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &s, nil
}

func (r *RedisSessionRepo) Invalidate(sessionID string) error {
	s, err := r.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	ctx := context.TODO()
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key(sessionID))
		pipe.SRem(ctx, r.userKey(s.User.ID), sessionID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

const invalidateUserAttempts = 5

// InvalidateUser drops every session of userID. The user set is watched so a
// session created concurrently is either dropped too or left fully indexed.
func (r *RedisSessionRepo) InvalidateUser(userID string) error {
	ctx := context.TODO()
	userKey := r.userKey(userID)

	drop := func(tx *redis.Tx) error {
		ids, err := tx.SMembers(ctx, userKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		keys := make([]string, 0, len(ids)+1)
		for _, id := range ids {
			keys = append(keys, r.key(id))
		}
		keys = append(keys, userKey)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, keys...)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < invalidateUserAttempts; i++ {
		err = r.client.Watch(ctx, drop, userKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
