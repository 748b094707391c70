package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/photoshare/internal/repository"
	"github.com/d60-Lab/photoshare/pkg/logger"
)

// Store serves the serialized (JSON) form of users and posts read-through
// from Redis. Misses, including Redis failures, fall back to the repositories.
type Store struct {
	users repository.UserRepository
	posts repository.PostRepository
	cache *redis.Client
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewStore(users repository.UserRepository, posts repository.PostRepository, cache *redis.Client, ttl time.Duration) *Store {
	return &Store{users: users, posts: posts, cache: cache, ttl: ttl}
}

func userKey(id int64) string { return fmt.Sprintf("snapshot:user:%d", id) }
func postKey(id int64) string { return fmt.Sprintf("snapshot:post:%d", id) }

// User returns the serialized user. repository.ErrNotFound is returned
// unchanged and never cached.
func (s *Store) User(ctx context.Context, id int64) ([]byte, error) {
	return s.readThrough(ctx, userKey(id), func() (map[string]any, error) {
		u, err := s.users.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return u.Serialize(), nil
	})
}

func (s *Store) Post(ctx context.Context, id int64) ([]byte, error) {
	return s.readThrough(ctx, postKey(id), func() (map[string]any, error) {
		p, err := s.posts.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return p.Serialize(), nil
	})
}

func (s *Store) readThrough(ctx context.Context, key string, load func() (map[string]any, error)) ([]byte, error) {
	data, err := s.cache.Get(ctx, key).Bytes()
	if err == nil {
		s.hits.Add(1)
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		logger.Warn("snapshot cache read failed", zap.String("key", key), zap.Error(err))
	}
	s.misses.Add(1)

	fields, err := load()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		logger.Warn("snapshot cache write failed", zap.String("key", key), zap.Error(err))
	}
	return payload, nil
}

// ForgetUser drops the cached user only; use it after updates.
func (s *Store) ForgetUser(ctx context.Context, id int64) error {
	return s.cache.Del(ctx, userKey(id)).Err()
}

func (s *Store) ForgetPost(ctx context.Context, id int64) error {
	return s.cache.Del(ctx, postKey(id)).Err()
}

// DeleteUser deletes the user and evicts the snapshots of every post removed
// with it by cascade. Once the row is gone an eviction failure is only logged;
// stale keys expire with the TTL.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	posts, err := s.posts.ListByAuthor(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	keys := make([]string, 0, len(posts)+1)
	keys = append(keys, userKey(id))
	for _, p := range posts {
		keys = append(keys, postKey(p.ID))
	}
	pipe := s.cache.Pipeline()
	pipe.Del(ctx, keys...)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("snapshot eviction failed", zap.Int64("user_id", id), zap.Int("keys", len(keys)), zap.Error(err))
	}
	return nil
}

func (s *Store) DeletePost(ctx context.Context, id int64) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.ForgetPost(ctx, id); err != nil {
		logger.Warn("snapshot eviction failed", zap.Int64("post_id", id), zap.Error(err))
	}
	return nil
}

// Resident counts how many of the given users' and posts' snapshots are
// still cached.
func (s *Store) Resident(ctx context.Context, userIDs, postIDs []int64) (int64, error) {
	keys := make([]string, 0, len(userIDs)+len(postIDs))
	for _, id := range userIDs {
		keys = append(keys, userKey(id))
	}
	for _, id := range postIDs {
		keys = append(keys, postKey(id))
	}
	if len(keys) == 0 {
		return 0, nil
	}
	return s.cache.Exists(ctx, keys...).Result()
}

// ResetCounters clears recorded cache counters.
func (s *Store) ResetCounters() {
	s.hits.Store(0)
	s.misses.Store(0)
}

// Counters reports cache hits and misses; every miss is one repository load.
func (s *Store) Counters() Counters {
	return Counters{Hits: s.hits.Load(), Misses: s.misses.Load()}
}

type Counters struct {
	Hits   int64
	Misses int64
}
