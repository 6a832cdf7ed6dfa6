package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dafage00/MHXYPro/infrastructures/market"
)

func newTestStore(t *testing.T) *RecordStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "market.db"))
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(id, item string, price float64, tradeType market.TradeType, at time.Time) *market.TradeRecord {
	return &market.TradeRecord{
		ID:         id,
		Item:       item,
		TradeType:  tradeType,
		Price:      price,
		RawText:    "收" + item,
		RawName:    item,
		Category:   market.CategoryHardCurrency,
		Confidence: 0.9,
		Timestamp:  at,
	}
}

func TestStore_InsertAndRecent(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	err := s.Insert([]*market.TradeRecord{
		sampleRecord("r1", "黑宝石", 15, market.TradeBuy, base),
		sampleRecord("r2", "彩果", 5, market.TradeSell, base.Add(time.Minute)),
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	recent, err := s.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].ID != "r2" {
		t.Fatalf("records must come back newest first: %+v", recent[0])
	}
	if recent[0].TradeType != market.TradeSell || recent[0].Price != 5 {
		t.Fatalf("record fields lost: %+v", recent[0])
	}
}

func TestStore_QueryByItem(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	s.Insert([]*market.TradeRecord{
		sampleRecord("r1", "黑宝石", 15, market.TradeBuy, base),
		sampleRecord("r2", "彩果", 5, market.TradeSell, base),
		sampleRecord("r3", "黑宝石", 16, market.TradeBuy, base.Add(time.Hour)),
	})

	records, err := s.QueryByItem("黑宝石", 10)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "r3" {
		t.Fatalf("unexpected order: %+v", records[0])
	}
}

func TestStore_ItemStats(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	s.Insert([]*market.TradeRecord{
		sampleRecord("r1", "黑宝石", 10, market.TradeBuy, base),
		sampleRecord("r2", "黑宝石", 20, market.TradeSell, base),
		sampleRecord("r3", "黑宝石", 0, market.TradeBuy, base), // 无报价不参与统计
	})

	st, err := s.ItemStats("黑宝石")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if st.Count != 2 || st.BuyCount != 1 || st.SellCount != 1 {
		t.Fatalf("unexpected counts: %+v", st)
	}
	if st.AvgPrice != 15 || st.MinPrice != 10 || st.MaxPrice != 20 {
		t.Fatalf("unexpected prices: %+v", st)
	}
}

func TestStore_ItemStatsUnknown(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ItemStats("不存在"); err != market.ErrRecordNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestStore_Relabel(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	s.Insert([]*market.TradeRecord{sampleRecord("r1", "彩果", 5, market.TradeSell, base)})

	if err := s.Relabel("r1", "黑宝石", market.CategoryHardCurrency, "宝石"); err != nil {
		t.Fatalf("relabel failed: %v", err)
	}
	records, _ := s.QueryByItem("黑宝石", 10)
	if len(records) != 1 || records[0].Status != market.RecordStatusLearned {
		t.Fatalf("relabel not applied: %+v", records)
	}

	if err := s.Relabel("missing", "黑宝石", "", ""); err != market.ErrRecordNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestStore_Cleanup(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	s.Insert([]*market.TradeRecord{
		sampleRecord("old", "彩果", 5, market.TradeSell, now.AddDate(0, -4, 0)),
		sampleRecord("new", "彩果", 6, market.TradeSell, now.AddDate(0, -1, 0)),
	})

	deleted, err := s.Cleanup(3, now)
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}
	recent, _ := s.Recent(10)
	if len(recent) != 1 || recent[0].ID != "new" {
		t.Fatalf("wrong record survived: %+v", recent)
	}
}
