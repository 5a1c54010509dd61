package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// 每个用户每天至多触发一次风险评估
const assessInterval = 24 * time.Hour

// LastRunStore 按用户维度记录上一次评估时间
type LastRunStore interface {
	GetLastRun(ctx context.Context, userID string) (time.Time, bool, error)
	SetLastRun(ctx context.Context, userID string, at time.Time) error
}

// AssessmentThrottle 评估节流器
// 时间戳在放行时写入，不关心该次评估成功与否
type AssessmentThrottle struct {
	store LastRunStore
}

func NewAssessmentThrottle(store LastRunStore) *AssessmentThrottle {
	return &AssessmentThrottle{
		store: store,
	}
}

// Allow 判断是否放行本次评估，放行时记录时间戳
func (t *AssessmentThrottle) Allow(ctx context.Context, userID string, now time.Time) (bool, error) {
	last, ok, err := t.store.GetLastRun(ctx, userID)
	if err != nil {
		return false, err
	}
	if ok && now.Sub(last) < assessInterval {
		return false, nil
	}
	if err := t.store.SetLastRun(ctx, userID, now); err != nil {
		return false, err
	}
	return true, nil
}

// RedisLastRunStore 基于Redis的上次评估时间存储
type RedisLastRunStore struct {
	client *redis.Client
}

func NewRedisLastRunStore(client *redis.Client) *RedisLastRunStore {
	return &RedisLastRunStore{
		client: client,
	}
}

func lastRunKey(userID string) string {
	return fmt.Sprintf("risk_assess_last:%s", userID)
}

func (s *RedisLastRunStore) GetLastRun(ctx context.Context, userID string) (time.Time, bool, error) {
	value, err := s.client.Get(ctx, lastRunKey(userID)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("读取评估时间戳失败: %w", err)
	}
	last, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// 损坏的时间戳按不存在处理
		return time.Time{}, false, nil
	}
	return last, true, nil
}

func (s *RedisLastRunStore) SetLastRun(ctx context.Context, userID string, at time.Time) error {
	// 保留48小时足够覆盖24小时窗口
	if err := s.client.Set(ctx, lastRunKey(userID), at.UTC().Format(time.RFC3339), 48*time.Hour).Err(); err != nil {
		return fmt.Errorf("写入评估时间戳失败: %w", err)
	}
	return nil
}

// MemoryLastRunStore 内存实现，测试使用
type MemoryLastRunStore struct {
	mu   sync.Mutex
	runs map[string]time.Time
}

func NewMemoryLastRunStore() *MemoryLastRunStore {
	return &MemoryLastRunStore{
		runs: make(map[string]time.Time),
	}
}

func (s *MemoryLastRunStore) GetLastRun(_ context.Context, userID string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.runs[userID]
	return last, ok, nil
}

func (s *MemoryLastRunStore) SetLastRun(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[userID] = at
	return nil
}
