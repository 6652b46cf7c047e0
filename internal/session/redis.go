package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "shopify:session:"
	shopIndexPrefix  = "shopify:shop_sessions:"
)

// RedisStore keeps each session as a JSON value and indexes session ids per
// shop in a sorted set scored by write time.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

type RedisOption func(*RedisStore)

// WithTTL expires sessions after d. Zero keeps them until deleted.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = d
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (r *RedisStore) Create(ctx context.Context, sessionID string, s Session) error {
	now := r.now().UTC()
	s.ID = sessionID
	s.CreatedAt = now
	s.UpdatedAt = now
	if prev, err := r.Get(ctx, sessionID); err == nil {
		s.CreatedAt = prev.CreatedAt
		if prev.Shop != s.Shop {
			// The id moved to another shop; drop it from the old index.
			if err := r.client.ZRem(ctx, shopIndexPrefix+prev.Shop, sessionID).Err(); err != nil {
				return fmt.Errorf("reindex session: %w", err)
			}
		}
	}

	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKeyPrefix+sessionID, b, r.ttl)
		pipe.ZAdd(ctx, shopIndexPrefix+s.Shop, redis.Z{Score: float64(now.UnixNano()), Member: sessionID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	b, err := r.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) GetByShop(ctx context.Context, shop string) (*Session, error) {
	ids, err := r.client.ZRevRange(ctx, shopIndexPrefix+shop, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load shop index: %w", err)
	}
	// Index entries outlive sessions that expired through the TTL.
	for _, id := range ids {
		s, err := r.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return s, err
	}
	return nil, ErrNotFound
}

func (r *RedisStore) DeleteShop(ctx context.Context, shop string) error {
	index := shopIndexPrefix + shop
	ids, err := r.client.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("load shop index: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, index)

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete shop sessions: %w", err)
	}
	return nil
}
