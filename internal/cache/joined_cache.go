package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"evenza/internal/model"

	"github.com/redis/go-redis/v9"
)

// JoinedEventCache 每個使用者已加入活動的本地快照儲存。
// 讀寫失敗由上層決定要不要吞掉,此層只負責存取。
type JoinedEventCache interface {
	// Load 不存在時回傳 nil, nil
	Load(ctx context.Context, uid string) ([]model.Event, error)
	Save(ctx context.Context, uid string, events []model.Event) error
	Remove(ctx context.Context, uid string) error
}

type JoinedEventCacheImpl struct {
	client *redis.Client
}

func NewJoinedEventCache(client *redis.Client) JoinedEventCache {
	return &JoinedEventCacheImpl{client: client}
}

func (c *JoinedEventCacheImpl) key(uid string) string {
	return fmt.Sprintf("evenza:joined:%s", uid)
}

func (c *JoinedEventCacheImpl) Load(ctx context.Context, uid string) ([]model.Event, error) {
	raw, err := c.client.Get(ctx, c.key(uid)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var events []model.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return nil, fmt.Errorf("decode joined events: %w", err)
	}
	return events, nil
}

func (c *JoinedEventCacheImpl) Save(ctx context.Context, uid string, events []model.Event) error {
	raw, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(uid), raw, 0).Err()
}

func (c *JoinedEventCacheImpl) Remove(ctx context.Context, uid string) error {
	return c.client.Del(ctx, c.key(uid)).Err()
}
