/*
 * @module service/distributed_lock/redis_lock
 * @description Redis分布式锁实现，用于多实例环境下定时报告任务的调度防重
 * @architecture 工具层 - 提供分布式锁能力
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 获取锁 -> 执行报告任务 -> 释放锁/自动过期
 * @rules 使用Redis SET NX实现，锁值为实例ID，只有持有者能释放
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/report/report_scheduler.go
 */

package distributed_lock

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DistributedLock 分布式锁接口
type DistributedLock interface {
	// TryLock 尝试获取锁
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Unlock 释放锁
	Unlock(ctx context.Context, key string) error
	// Refresh 刷新锁的过期时间
	Refresh(ctx context.Context, key string, ttl time.Duration) error
}

// RedisLock Redis分布式锁实现
type RedisLock struct {
	client     *redis.Client
	instanceID string // 实例ID，用于标识锁的持有者
}

// NewRedisLock 创建Redis分布式锁，连接参数从环境变量读取
func NewRedisLock() (*RedisLock, error) {
	host := getEnvWithDefault("REDIS_HOST", "localhost")
	port := getEnvWithDefault("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")
	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		fmt.Sscanf(dbStr, "%d", &db)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	lock := &RedisLock{
		client:     client,
		instanceID: uuid.New().String(),
	}
	slog.Info("Redis分布式锁初始化完成", "instance_id", lock.instanceID)
	return lock, nil
}

// Client 返回底层Redis客户端，供缓存等场景复用连接
func (l *RedisLock) Client() *redis.Client {
	return l.client
}

// TryLock 尝试获取锁
func (l *RedisLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, l.instanceID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("获取锁失败: %w", err)
	}
	return ok, nil
}

// Unlock 释放锁，仅当锁仍由当前实例持有时删除
func (l *RedisLock) Unlock(ctx context.Context, key string) error {
	holder, err := l.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("检查锁持有者失败: %w", err)
	}
	if holder != l.instanceID {
		return fmt.Errorf("锁 %s 已被其他实例持有，拒绝释放", key)
	}

	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("释放锁失败: %w", err)
	}
	return nil
}

// Refresh 刷新锁的过期时间
func (l *RedisLock) Refresh(ctx context.Context, key string, ttl time.Duration) error {
	if err := l.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("刷新锁过期时间失败: %w", err)
	}
	return nil
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
