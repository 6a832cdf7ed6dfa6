package market

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a := NewAnalyzer(NewAliasDictionary(nil), nil, AnalyzerConfig{})
	a.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return a
}

func TestAnalyze_ForwardChainSamePrice(t *testing.T) {
	a := newTestAnalyzer(t)
	records := a.Analyze([]string{"650W收持国多闻"})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	want := []string{"持国天王", "多闻天王"}
	for i, rec := range records {
		if rec.Item != want[i] {
			t.Fatalf("record %d item = %q, want %q", i, rec.Item, want[i])
		}
		if rec.Price != 650 {
			t.Fatalf("record %d price = %v, want 650", i, rec.Price)
		}
		if rec.TradeType != TradeBuy {
			t.Fatalf("record %d trade type = %q, want buy", i, rec.TradeType)
		}
	}
}

func TestAnalyze_LevelRejectedBeforePrice(t *testing.T) {
	a := newTestAnalyzer(t)
	records := a.Analyze([]string{"119伤害符 15W出售"})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(records), records)
	}
	rec := records[0]
	if rec.Item != "伤害符" || rec.Price != 15 || rec.TradeType != TradeSell {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestAnalyze_LevelBetweenItemAndPrice(t *testing.T) {
	// 等级数夹在物品和真价格之间，价格旁有买卖动词时照常成交
	a := newTestAnalyzer(t)
	records := a.Analyze([]string{"70武器35收"})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(records), records)
	}
	rec := records[0]
	if rec.Item != "武器" || rec.Price != 35 || rec.TradeType != TradeBuy {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestAnalyze_LevelNeverBecomesPrice(t *testing.T) {
	a := newTestAnalyzer(t)
	records := a.Analyze([]string{"出个武器105"})
	for _, rec := range records {
		if rec.Price == 105 {
			t.Fatalf("level value leaked as price: %+v", rec)
		}
	}
	// 物品本身还是要以无价形式报出来
	if len(records) != 1 || records[0].Item != "武器" || records[0].Price != 0 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestAnalyze_OrGroupBindsAllItems(t *testing.T) {
	a := newTestAnalyzer(t)
	records := a.Analyze([]string{"119体FF换个命中FF，或者8W出售"})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	want := map[string]bool{"体质符": false, "命中符": false}
	for _, rec := range records {
		if rec.Price != 8 || rec.TradeType != TradeSell {
			t.Fatalf("unexpected record: %+v", rec)
		}
		if _, ok := want[rec.Item]; !ok {
			t.Fatalf("unexpected item: %q", rec.Item)
		}
		want[rec.Item] = true
	}
	for item, seen := range want {
		if !seen {
			t.Fatalf("item %q missing from or-group", item)
		}
	}
}

func TestAnalyze_OrGroupThreeItems(t *testing.T) {
	a := newTestAnalyzer(t)
	records := a.Analyze([]string{"119伤害F 换 防御 速度 或者15W"})
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}
	want := []string{"伤害符", "防御符", "速度符"}
	for i, rec := range records {
		if rec.Item != want[i] || rec.Price != 15 {
			t.Fatalf("record %d unexpected: %+v", i, rec)
		}
	}
}

func TestAnalyze_MentionWithoutPrice(t *testing.T) {
	a := newTestAnalyzer(t)
	records := a.Analyze([]string{"长期收黑宝石舍利子"})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	for _, rec := range records {
		if rec.Price != 0 {
			t.Fatalf("mention-only record must carry price 0: %+v", rec)
		}
		if rec.TradeType != TradeBuy {
			t.Fatalf("unexpected trade type: %+v", rec)
		}
	}
}

func TestAnalyze_SlangLine(t *testing.T) {
	a := newTestAnalyzer(t)
	records := a.Analyze([]string{"超66，24万一个"})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(records), records)
	}
	rec := records[0]
	if rec.Item != "超级金柳露" || rec.Price != 24 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestAnalyze_MalformedLines(t *testing.T) {
	a := newTestAnalyzer(t)
	records := a.Analyze([]string{"", "。。。", "abc", "哈哈", "今天天气真好啊"})
	if len(records) != 0 {
		t.Fatalf("malformed lines must yield nothing: %+v", records)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	lines := []string{
		"650W收持国多闻",
		"119伤害符 15W出售",
		"在703收黑宝石1 5W",
	}
	first := newTestAnalyzer(t).Analyze(lines)
	second := newTestAnalyzer(t).Analyze(lines)
	if len(first) != len(second) {
		t.Fatalf("record counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Item != second[i].Item || first[i].Price != second[i].Price || first[i].TradeType != second[i].TradeType {
			t.Fatalf("run mismatch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestAnalyze_RecentWindowCapped(t *testing.T) {
	a := NewAnalyzer(NewAliasDictionary(nil), nil, AnalyzerConfig{RecentWindow: 3})
	for i := 0; i < 5; i++ {
		a.Analyze([]string{"出售彩果5W"})
	}
	if got := len(a.Recent()); got != 3 {
		t.Fatalf("recent window not capped: %d", got)
	}
}

func TestAnalyze_Hooks(t *testing.T) {
	a := newTestAnalyzer(t)
	var lineCount, recordCount int
	var latencySeen bool
	a.InstallHooks(Hooks{
		OnLine:    func() { lineCount++ },
		OnRecord:  func(*TradeRecord) { recordCount++ },
		OnLatency: func(time.Duration) { latencySeen = true },
	})
	a.Analyze([]string{"出售彩果5W", "垃圾行"})
	if lineCount != 2 {
		t.Fatalf("line hook fired %d times", lineCount)
	}
	if recordCount != 1 {
		t.Fatalf("record hook fired %d times", recordCount)
	}
	if !latencySeen {
		t.Fatalf("latency hook never fired")
	}
}

func TestApplyCorrection_LearnsAliasAndRelabels(t *testing.T) {
	a := newTestAnalyzer(t)
	records := a.Analyze([]string{"出售彩果5W"})
	if len(records) != 1 {
		t.Fatalf("setup failed: %+v", records)
	}

	err := a.ApplyCorrection(Correction{
		RecordID:     records[0].ID,
		StandardName: "黑宝石",
		ExtraAlias:   "黑钻",
	})
	if err != nil {
		t.Fatalf("correction failed: %v", err)
	}

	r := a.Match("黑钻")
	if r == nil || r.StandardName != "黑宝石" {
		t.Fatalf("learned alias not matched: %+v", r)
	}
	if r.Confidence != 1.0 || r.Method != MethodExact {
		t.Fatalf("learned alias must hit exact tier: %+v", r)
	}

	recent := a.Recent()
	if recent[0].Item != "黑宝石" || recent[0].Status != RecordStatusLearned {
		t.Fatalf("record not relabeled: %+v", recent[0])
	}
}

func TestApplyCorrection_SurvivesReload(t *testing.T) {
	a := newTestAnalyzer(t)
	records := a.Analyze([]string{"出售彩果5W"})
	if err := a.ApplyCorrection(Correction{
		RecordID:     records[0].ID,
		StandardName: "黑宝石",
		ExtraAlias:   "黑钻",
	}); err != nil {
		t.Fatalf("correction failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "items.json")
	if err := a.Dictionary().Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	m := NewSmartItemMatcher(LoadDictionary(path, nil))
	r := m.Match("黑钻")
	if r == nil || r.StandardName != "黑宝石" || r.Confidence != 1.0 {
		t.Fatalf("alias lost after reload: %+v", r)
	}
}

func TestApplyCorrection_UnknownRecord(t *testing.T) {
	a := newTestAnalyzer(t)
	err := a.ApplyCorrection(Correction{RecordID: "missing", StandardName: "黑宝石"})
	if err == nil {
		t.Fatalf("unknown record must fail")
	}
}

func TestApplyCorrection_EmptyName(t *testing.T) {
	a := newTestAnalyzer(t)
	if err := a.ApplyCorrection(Correction{RecordID: "x"}); err == nil {
		t.Fatalf("empty canonical name must fail")
	}
}
