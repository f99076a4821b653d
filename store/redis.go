package store

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/ecoloop/matchkit/core"
)

// RedisMatrix 是基于 Redis 的矩阵存储，整份 CSV 存在单个 key 下。
// SET 本身是原子的，读方同样只会看到完整的一份矩阵。
type RedisMatrix struct {
	client *redis.Client
	key    string
}

// NewRedisMatrix 创建 Redis 矩阵存储并验证连通性。
func NewRedisMatrix(ctx context.Context, addr, password string, db int, key string) (*RedisMatrix, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	if key == "" {
		key = "matchkit:similarity"
	}
	return &RedisMatrix{client: client, key: key}, nil
}

func (s *RedisMatrix) Name() string { return "redis" }

func (s *RedisMatrix) Load(ctx context.Context) (*core.SimilarityMatrix, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, core.ErrMatrixNotFound
	}
	if err != nil {
		return nil, err
	}
	m, err := decodeMatrix(data)
	if err != nil {
		return nil, core.ErrMatrixNotFound
	}
	return m, nil
}

func (s *RedisMatrix) Save(ctx context.Context, m *core.SimilarityMatrix) error {
	data, err := encodeMatrix(m)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisMatrix) Close() error {
	return s.client.Close()
}
