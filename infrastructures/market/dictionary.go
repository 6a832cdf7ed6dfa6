package market

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

var mlog = logrus.StandardLogger().WithField("module", "market")

// aliasEntry 规范化别名到标准名的一条映射
type aliasEntry struct {
	norm      string
	canonical string
}

// AliasDictionary 别名词典：标准名 -> 物品，外加两张派生查找表。
// 读多写少，学习反馈写入时用写锁重建，Analyze并发读安全。
type AliasDictionary struct {
	mu       sync.RWMutex
	items    map[string]*CanonicalItem
	exact    map[string]string // 规范化别名 -> 标准名
	phonetic map[string]string // 拼音键 -> 标准名
	aliases  []aliasEntry      // 按规范化别名排序，扫描用
	provider PhoneticProvider
}

// NormalizeKey 别名入表前的规范化：NFKC、去空白、只留汉字/字母/数字、
// 字母转小写。查表用同一套规则。
func NormalizeKey(s string) string {
	s = norm.NFKC.String(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 0x4e00 && r <= 0x9fa5:
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewAliasDictionary 创建只含内置默认表的词典
func NewAliasDictionary(provider PhoneticProvider) *AliasDictionary {
	d := &AliasDictionary{provider: provider}
	d.mu.Lock()
	d.resetItemsLocked(defaultItems())
	d.rebuildLocked()
	d.mu.Unlock()
	return d
}

// LoadDictionary 加载词典：默认表打底，用户文件按标准名覆盖。
// 文件缺失或格式损坏只记日志，永远返回可用词典。
func LoadDictionary(path string, provider PhoneticProvider) *AliasDictionary {
	d := NewAliasDictionary(provider)
	if path == "" {
		return d
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			mlog.Warnf("读取词典文件失败，回退默认表: %v", err)
		}
		return d
	}

	var user map[string]ItemConfig
	if err := json.Unmarshal(data, &user); err != nil {
		mlog.Warnf("词典文件格式损坏，回退默认表: %v", err)
		return d
	}

	d.mu.Lock()
	for name, cfg := range user {
		d.putLocked(name, cfg)
	}
	d.rebuildLocked()
	d.mu.Unlock()

	mlog.Infof("词典加载完成: %d个物品, %d条别名", len(d.items), len(d.aliases))
	return d
}

// Save 持久化为 标准名 -> {aliases, category, subcategory} 的JSON文档
func (d *AliasDictionary) Save(path string) error {
	snapshot := d.Items()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return WrapError(err, "序列化词典失败")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return WrapErrorf(ErrDictionarySave, "写入%s: %v", path, err)
	}
	return nil
}

// UpdateAliases 用新配置整体重建：默认表打底，配置按键覆盖
func (d *AliasDictionary) UpdateAliases(cfg map[string]ItemConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.resetItemsLocked(defaultItems())
	for name, c := range cfg {
		d.putLocked(name, c)
	}
	d.rebuildLocked()
}

// Upsert 创建或合并单个物品：新别名并入现有别名集，不丢已学内容
func (d *AliasDictionary) Upsert(name string, cfg ItemConfig) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.items[name]
	if ok {
		cfg.Aliases = append(cfg.Aliases, existing.Aliases...)
		if cfg.Category == "" {
			cfg.Category = existing.Category
		}
		if cfg.Subcategory == "" {
			cfg.Subcategory = existing.Subcategory
		}
	}
	d.putLocked(name, cfg)
	d.rebuildLocked()
	return nil
}

// EnsureEntry 幂等插入一个平凡条目（别名=自身），分类按关键词表
// 推断，推不出来归入杂项。返回是否真的插入了。
func (d *AliasDictionary) EnsureEntry(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.items[name]; ok {
		return false
	}
	d.putLocked(name, ItemConfig{
		Aliases:  []string{name},
		Category: inferCategory(name),
	})
	d.rebuildLocked()
	return true
}

func inferCategory(name string) Category {
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(name, w) {
				return ck.category
			}
		}
	}
	return CategoryMisc
}

// Lookup 按标准名取物品快照
func (d *AliasDictionary) Lookup(name string) (CanonicalItem, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	item, ok := d.items[name]
	if !ok {
		return CanonicalItem{}, false
	}
	return *item, true
}

// Items 导出全量快照，持久化和API用
func (d *AliasDictionary) Items() map[string]ItemConfig {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]ItemConfig, len(d.items))
	for name, item := range d.items {
		out[name] = ItemConfig{
			Aliases:     append([]string(nil), item.Aliases...),
			Category:    item.Category,
			Subcategory: item.Subcategory,
			Keywords:    append([]string(nil), item.Keywords...),
		}
	}
	return out
}

// Len 物品数
func (d *AliasDictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.items)
}

func (d *AliasDictionary) exactMatch(normKey string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.exact[normKey]
	return name, ok
}

func (d *AliasDictionary) phoneticMatch(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.phonetic[key]
	return name, ok
}

func (d *AliasDictionary) phoneticKey(text string) string {
	if d.provider == nil {
		return ""
	}
	return d.provider.Key(text)
}

// rangeAliases 按规范化别名的字典序遍历，回调返回false提前终止
func (d *AliasDictionary) rangeAliases(f func(norm, canonical string) bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, e := range d.aliases {
		if !f(e.norm, e.canonical) {
			return
		}
	}
}

func (d *AliasDictionary) resetItemsLocked(items map[string]ItemConfig) {
	d.items = make(map[string]*CanonicalItem, len(items))
	for name, cfg := range items {
		d.putLocked(name, cfg)
	}
}

// putLocked 写入一个物品，别名去重并保证含标准名自身。调用方持写锁。
func (d *AliasDictionary) putLocked(name string, cfg ItemConfig) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	seen := make(map[string]bool)
	aliases := make([]string, 0, len(cfg.Aliases)+1)
	for _, a := range append([]string{name}, cfg.Aliases...) {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := NormalizeKey(a)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		aliases = append(aliases, a)
	}

	category := cfg.Category
	if category == "" {
		category = CategoryMisc
	}

	d.items[name] = &CanonicalItem{
		Name:        name,
		Category:    category,
		Subcategory: cfg.Subcategory,
		Aliases:     aliases,
		Keywords:    append([]string(nil), cfg.Keywords...),
	}
}

// rebuildLocked 从items重算exact/phonetic/aliases三张派生表。调用方持写锁。
func (d *AliasDictionary) rebuildLocked() {
	d.exact = make(map[string]string)
	d.phonetic = make(map[string]string)
	d.aliases = d.aliases[:0]

	names := make([]string, 0, len(d.items))
	for name := range d.items {
		names = append(names, name)
	}
	sort.Strings(names) // 确保冲突裁决稳定

	for _, name := range names {
		item := d.items[name]
		for _, alias := range item.Aliases {
			key := NormalizeKey(alias)
			if key == "" {
				continue
			}
			if _, exists := d.exact[key]; !exists {
				d.exact[key] = name
				d.aliases = append(d.aliases, aliasEntry{norm: key, canonical: name})
			}
			if pk := d.phoneticKey(alias); pk != "" {
				if _, exists := d.phonetic[pk]; !exists {
					d.phonetic[pk] = name
				}
			}
		}
	}

	sort.Slice(d.aliases, func(i, j int) bool {
		if d.aliases[i].norm != d.aliases[j].norm {
			return d.aliases[i].norm < d.aliases[j].norm
		}
		return d.aliases[i].canonical < d.aliases[j].canonical
	})
}
