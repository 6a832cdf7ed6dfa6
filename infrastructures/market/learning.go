package market

// Correction 人工纠错输入：把某条已产出记录指认到正确的标准物品，
// 顺带可以教一个新别名
type Correction struct {
	RecordID     string   `json:"record_id"`
	StandardName string   `json:"standard_name"`
	Category     Category `json:"category,omitempty"`
	Subcategory  string   `json:"subcategory,omitempty"`
	ExtraAlias   string   `json:"extra_alias,omitempty"`
}

// ApplyCorrection 学习反馈入口：更新词典条目并回填对应记录。
// 可重复调用，不会丢掉其他物品已学到的别名。记录已滚出窗口时
// 词典端的学习仍然生效，只是回填失败。
func (a *Analyzer) ApplyCorrection(c Correction) error {
	aliases := []string{c.StandardName}
	if c.ExtraAlias != "" {
		aliases = append(aliases, c.ExtraAlias)
	}
	if err := a.dict.Upsert(c.StandardName, ItemConfig{
		Aliases:     aliases,
		Category:    c.Category,
		Subcategory: c.Subcategory,
	}); err != nil {
		return WrapError(err, "纠错写入词典失败")
	}
	if a.seg != nil {
		a.seg.Reseed(a.dict)
	}

	item, _ := a.dict.Lookup(c.StandardName)

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, rec := range a.recent {
		if rec.ID != c.RecordID {
			continue
		}
		rec.Item = item.Name
		rec.Category = item.Category
		rec.Subcategory = item.Subcategory
		rec.Status = RecordStatusLearned
		return nil
	}
	return WrapErrorf(ErrRecordNotFound, "记录不存在: %s", c.RecordID)
}

// Recent 近期记录窗口快照，按产出顺序
func (a *Analyzer) Recent() []*TradeRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*TradeRecord, len(a.recent))
	copy(out, a.recent)
	return out
}

// RawLines 近期原始行窗口快照
func (a *Analyzer) RawLines() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.rawLog))
	copy(out, a.rawLog)
	return out
}
