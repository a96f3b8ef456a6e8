package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blues/cfl/internal/config"
	"github.com/blues/cfl/internal/model"
	"github.com/redis/go-redis/v9"
)

// Cache 活动快照缓存
//
// 只加速读路径；nil接收者表示缓存未启用，所有方法直接退化为未命中，
// 缓存故障永远不影响账本操作本身。
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Init 初始化redis缓存，未启用时返回nil
func Init(cfg config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{
		rdb: rdb,
		ttl: time.Duration(cfg.TTL) * time.Second,
	}, nil
}

func campaignKey(id int64) string {
	return fmt.Sprintf("campaign:%d", id)
}

// GetCampaign 读取活动快照，未命中或未启用返回false
func (c *Cache) GetCampaign(ctx context.Context, id int64) (*model.CampaignModel, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, campaignKey(id)).Result()
	if err != nil || data == "" {
		return nil, false
	}

	var campaign model.CampaignModel
	if err := json.Unmarshal([]byte(data), &campaign); err != nil {
		return nil, false
	}

	return &campaign, true
}

// SetCampaign 写入活动快照
func (c *Cache) SetCampaign(ctx context.Context, campaign *model.CampaignModel) {
	if c == nil {
		return
	}

	data, err := json.Marshal(campaign)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, campaignKey(campaign.Id), data, c.ttl)
}

// InvalidateCampaign 状态变更后删除快照
func (c *Cache) InvalidateCampaign(ctx context.Context, id int64) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, campaignKey(id))
}
