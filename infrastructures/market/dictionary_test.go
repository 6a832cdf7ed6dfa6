package market

import (
	"path/filepath"
	"testing"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"黑宝石", "黑宝石"},
		{" 黑 宝 石 ", "黑宝石"},
		{"C66", "c66"},
		{"伤害FF！", "伤害ff"},
		{"Ｄ３", "d3"}, // 全角经NFKC折到半角
	}
	for _, c := range cases {
		if got := NormalizeKey(c.in); got != c.want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDictionary_DefaultsLoaded(t *testing.T) {
	d := NewAliasDictionary(nil)
	if d.Len() == 0 {
		t.Fatalf("defaults missing")
	}
	item, ok := d.Lookup("黑宝石")
	if !ok {
		t.Fatalf("built-in item missing")
	}
	if item.Category != CategoryHardCurrency {
		t.Fatalf("unexpected category: %q", item.Category)
	}
}

func TestDictionary_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")

	d := NewAliasDictionary(nil)
	if err := d.Upsert("测试神器", ItemConfig{
		Aliases:  []string{"测试神器", "神器"},
		Category: CategoryGear,
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := d.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := LoadDictionary(path, nil)
	item, ok := reloaded.Lookup("测试神器")
	if !ok {
		t.Fatalf("learned item lost after reload")
	}
	if item.Category != CategoryGear {
		t.Fatalf("category lost: %q", item.Category)
	}
	if reloaded.Len() < d.Len() {
		t.Fatalf("defaults lost after reload: %d < %d", reloaded.Len(), d.Len())
	}
}

func TestDictionary_LoadMissingFileFallsBack(t *testing.T) {
	d := LoadDictionary(filepath.Join(t.TempDir(), "absent.json"), nil)
	if d == nil || d.Len() == 0 {
		t.Fatalf("missing file must fall back to defaults")
	}
}

func TestDictionary_UserOverlayWins(t *testing.T) {
	d := NewAliasDictionary(nil)
	d.UpdateAliases(map[string]ItemConfig{
		"黑宝石": {
			Aliases:     []string{"黑宝石", "黑宝"},
			Category:    CategoryHardCurrency,
			Subcategory: "宝石改",
		},
	})
	item, _ := d.Lookup("黑宝石")
	if item.Subcategory != "宝石改" {
		t.Fatalf("user entry must win: %+v", item)
	}
}

func TestDictionary_UpsertMergesAliases(t *testing.T) {
	d := NewAliasDictionary(nil)
	if err := d.Upsert("黑宝石", ItemConfig{Aliases: []string{"黑宝石", "黑石头"}}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	item, _ := d.Lookup("黑宝石")
	found := false
	for _, a := range item.Aliases {
		if a == "黑石头" {
			found = true
		}
	}
	if !found {
		t.Fatalf("new alias missing: %+v", item.Aliases)
	}
	if item.Category != CategoryHardCurrency {
		t.Fatalf("existing category must survive: %q", item.Category)
	}
}

func TestDictionary_UpsertEmptyName(t *testing.T) {
	d := NewAliasDictionary(nil)
	if err := d.Upsert("  ", ItemConfig{}); err == nil {
		t.Fatalf("empty name must fail")
	}
}

func TestDictionary_EnsureEntry(t *testing.T) {
	d := NewAliasDictionary(nil)
	if !d.EnsureEntry("无名符咒") {
		t.Fatalf("first ensure must insert")
	}
	if d.EnsureEntry("无名符咒") {
		t.Fatalf("second ensure must be a no-op")
	}
	item, ok := d.Lookup("无名符咒")
	if !ok {
		t.Fatalf("ensured entry missing")
	}
	if item.Category != CategoryTalisman {
		t.Fatalf("category inference failed: %q", item.Category)
	}
}

func TestDictionary_EnsureEntryMiscFallback(t *testing.T) {
	d := NewAliasDictionary(nil)
	d.EnsureEntry("谁知道这是什么")
	item, _ := d.Lookup("谁知道这是什么")
	if item.Category != CategoryMisc {
		t.Fatalf("unknown item must land in misc: %q", item.Category)
	}
}
