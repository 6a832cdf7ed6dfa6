package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dafage00/MHXYPro/infrastructures/config"
	"github.com/dafage00/MHXYPro/infrastructures/market"
)

// ErrQuoteNotFound 表示指定物品还没有缓存过报价
var ErrQuoteNotFound = errors.New("quote not found")

const quoteKeyPrefix = "mhxy:quote"

// QuoteCache 最新报价缓存。每个(物品, 方向)只留最近一条带价记录，
// 给行情接口做快速读，redis不可用时上层直接跳过本层。
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New 按配置连接redis并做一次连通性确认
func New(cfg *config.MhxyConfig) (*QuoteCache, error) {
	rc := cfg.Redis
	client := redis.NewClient(&redis.Options{
		Addr:         rc.Addr,
		Username:     rc.User,
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
		DialTimeout:  time.Duration(rc.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(rc.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(rc.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(rc.DialTimeout)*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewWithClient(client, time.Duration(rc.QuoteTTL)*time.Second), nil
}

// NewWithClient 直接绑定现成客户端，测试用
func NewWithClient(client *redis.Client, ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &QuoteCache{client: client, ttl: ttl}
}

// Close 关闭底层连接
func (c *QuoteCache) Close() error {
	return c.client.Close()
}

// StoreRecords 批量刷新最新报价，无报价记录跳过
func (c *QuoteCache) StoreRecords(ctx context.Context, records []*market.TradeRecord) error {
	for _, rec := range records {
		if rec.Price <= 0 {
			continue
		}
		if err := c.StoreQuote(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// StoreQuote 记录单条最新报价
func (c *QuoteCache) StoreQuote(ctx context.Context, rec *market.TradeRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal quote failed: %w", err)
	}
	return c.client.Set(ctx, quoteKey(rec.Item, rec.TradeType), data, c.ttl).Err()
}

// LatestQuote 取某物品某方向的最近报价
func (c *QuoteCache) LatestQuote(ctx context.Context, item string, tradeType market.TradeType) (*market.TradeRecord, error) {
	data, err := c.client.Get(ctx, quoteKey(item, tradeType)).Bytes()
	if err == redis.Nil {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch quote failed: %w", err)
	}
	rec := &market.TradeRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("unmarshal quote failed: %w", err)
	}
	return rec, nil
}

func quoteKey(item string, tradeType market.TradeType) string {
	return fmt.Sprintf("%s:%s:%s", quoteKeyPrefix, item, tradeType)
}
