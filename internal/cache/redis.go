// Package cache 提供场景快照的Redis缓存
//
// 缓存位于Postgres仓储之前，存储与仓储相同的不透明快照二进制，
// 缓存未命中或不可用时回退到仓储读取。
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paigong/paigong/internal/config"
	"github.com/paigong/paigong/pkg/logger"
)

const snapshotKeyPrefix = "paigong:snapshot:"

// SnapshotCache 快照缓存
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New 创建快照缓存
func New(cfg *config.RedisConfig) (*SnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis连接测试失败: %w", err)
	}

	logger.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Msg("Redis连接成功")

	return &SnapshotCache{client: client, ttl: cfg.TTL}, nil
}

// Set 写入场景快照
func (c *SnapshotCache) Set(ctx context.Context, scenarioID string, blob []byte) error {
	if err := c.client.Set(ctx, snapshotKeyPrefix+scenarioID, blob, c.ttl).Err(); err != nil {
		return fmt.Errorf("写入快照缓存失败: %w", err)
	}
	return nil
}

// Get 读取场景快照，未命中时返回 nil
func (c *SnapshotCache) Get(ctx context.Context, scenarioID string) ([]byte, error) {
	blob, err := c.client.Get(ctx, snapshotKeyPrefix+scenarioID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取快照缓存失败: %w", err)
	}
	return blob, nil
}

// Delete 删除场景快照
func (c *SnapshotCache) Delete(ctx context.Context, scenarioID string) error {
	if err := c.client.Del(ctx, snapshotKeyPrefix+scenarioID).Err(); err != nil {
		return fmt.Errorf("删除快照缓存失败: %w", err)
	}
	return nil
}

// Close 关闭Redis连接
func (c *SnapshotCache) Close() error {
	return c.client.Close()
}
