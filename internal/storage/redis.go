package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
}

// NewRedis returns a Store keyed draft:<kind>:<id> in Redis. Snapshots carry
// no TTL; an abandoned draft is cleaned up by an explicit reset or submit.
func NewRedis(client *redis.Client) Store {
	return &redisStore{client: client}
}

func draftKey(kind, id string) string {
	return fmt.Sprintf("draft:%s:%s", kind, id)
}

func (s *redisStore) SaveDraft(ctx context.Context, kind, id string, data []byte) error {
	return s.client.Set(ctx, draftKey(kind, id), data, 0).Err()
}

func (s *redisStore) LoadDraft(ctx context.Context, kind, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, draftKey(kind, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *redisStore) DeleteDraft(ctx context.Context, kind, id string) error {
	n, err := s.client.Del(ctx, draftKey(kind, id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *redisStore) ListDraftIDs(ctx context.Context, kind string) ([]string, error) {
	prefix := draftKey(kind, "")
	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			ids = append(ids, strings.TrimPrefix(key, prefix))
		}
		cursor = next
		if cursor == 0 {
			return ids, nil
		}
	}
}
