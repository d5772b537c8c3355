package savegame

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/unscrambler/internal/game"
)

const (
	KeySave = "unscramble:save:%s"

	SaveTTL = 30 * 24 * time.Hour
)

// RedisStore keeps snapshots as JSON strings that expire after SaveTTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, snap game.Snapshot) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return r.client.Set(ctx, fmt.Sprintf(KeySave, key), data, SaveTTL).Err()
}

func (r *RedisStore) Load(ctx context.Context, key string) (game.Snapshot, error) {
	if err := checkKey(key); err != nil {
		return game.Snapshot{}, err
	}
	data, err := r.client.Get(ctx, fmt.Sprintf(KeySave, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.Snapshot{}, ErrNoSave
	}
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to get save: %w", err)
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
