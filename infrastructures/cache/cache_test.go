package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dafage00/MHXYPro/infrastructures/market"
)

func newTestCache(t *testing.T) *QuoteCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewWithClient(client, time.Minute)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestQuoteCache_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	rec := &market.TradeRecord{
		ID:        "r1",
		Item:      "黑宝石",
		TradeType: market.TradeBuy,
		Price:     15,
		Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := c.StoreQuote(ctx, rec); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	got, err := c.LatestQuote(ctx, "黑宝石", market.TradeBuy)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got.ID != "r1" || got.Price != 15 {
		t.Fatalf("quote mangled: %+v", got)
	}
}

func TestQuoteCache_DirectionIsolated(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.StoreQuote(ctx, &market.TradeRecord{ID: "b", Item: "彩果", TradeType: market.TradeBuy, Price: 5})
	c.StoreQuote(ctx, &market.TradeRecord{ID: "s", Item: "彩果", TradeType: market.TradeSell, Price: 6})

	buy, err := c.LatestQuote(ctx, "彩果", market.TradeBuy)
	if err != nil || buy.Price != 5 {
		t.Fatalf("buy quote wrong: %+v %v", buy, err)
	}
	sell, err := c.LatestQuote(ctx, "彩果", market.TradeSell)
	if err != nil || sell.Price != 6 {
		t.Fatalf("sell quote wrong: %+v %v", sell, err)
	}
}

func TestQuoteCache_Missing(t *testing.T) {
	c := newTestCache(t)
	if _, err := c.LatestQuote(context.Background(), "不存在", market.TradeBuy); err != ErrQuoteNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestQuoteCache_StoreRecordsSkipsUnpriced(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	err := c.StoreRecords(ctx, []*market.TradeRecord{
		{ID: "p", Item: "黑宝石", TradeType: market.TradeBuy, Price: 15},
		{ID: "z", Item: "彩果", TradeType: market.TradeBuy, Price: 0},
	})
	if err != nil {
		t.Fatalf("store records failed: %v", err)
	}
	if _, err := c.LatestQuote(ctx, "彩果", market.TradeBuy); err != ErrQuoteNotFound {
		t.Fatalf("unpriced record must not be cached: %v", err)
	}
}
