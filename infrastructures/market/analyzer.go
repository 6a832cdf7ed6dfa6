package market

import (
	"strings"
	"sync"
	"time"
)

// 分析器默认参数
const (
	DefaultConfidenceFloor = 0.6
	DefaultRecentWindow    = 500
	DefaultRawLogWindow    = 100

	// 无单位数字落在该区间内优先怀疑是等级而不是价格
	levelValueMin = 35
	levelValueMax = 250

	// 连报物品之间允许的最大间隔字符数，例如"收持国多闻"
	chainMaxGap = 2
)

// AnalyzerConfig 分析器配置，零值字段取默认
type AnalyzerConfig struct {
	FuzzyThreshold   float64   // 模糊匹配门槛
	ConfidenceFloor  float64   // 低于该置信度的记录直接丢弃
	RawCoinCutoff    float64   // 无单位数字的原值判定线
	RecentWindow     int       // 近期记录滚动窗口条数
	RawLogWindow     int       // 原始行滚动窗口条数
	DefaultTradeType TradeType // 整行判不出意图时的兜底方向
}

func (c *AnalyzerConfig) fill() {
	if c.FuzzyThreshold <= 0 {
		c.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if c.ConfidenceFloor <= 0 {
		c.ConfidenceFloor = DefaultConfidenceFloor
	}
	if c.RawCoinCutoff <= 0 {
		c.RawCoinCutoff = DefaultRawCoinCutoff
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = DefaultRecentWindow
	}
	if c.RawLogWindow <= 0 {
		c.RawLogWindow = DefaultRawLogWindow
	}
	if c.DefaultTradeType == "" {
		c.DefaultTradeType = TradeSell
	}
}

// Hooks 观测回调，全部可空。解析核心不直接依赖任何指标库，
// 由外层装配时注入。
type Hooks struct {
	OnLine    func()
	OnRecord  func(rec *TradeRecord)
	OnLatency func(d time.Duration)
}

// Analyzer 行情行解析器。词典由调用方持有并可在两次Analyze之间
// 通过学习接口修改，单次Analyze内结果只由(词典状态, 输入行)决定。
type Analyzer struct {
	dict    *AliasDictionary
	matcher *SmartItemMatcher
	prices  *PriceParser
	seg     *ItemSegmenter
	cfg     AnalyzerConfig
	hooks   Hooks
	now     func() time.Time

	mu     sync.Mutex
	recent []*TradeRecord
	rawLog []string
}

// NewAnalyzer 创建解析器，seg可为nil（只影响兜底扫描的补刀档）
func NewAnalyzer(dict *AliasDictionary, seg *ItemSegmenter, cfg AnalyzerConfig) *Analyzer {
	cfg.fill()
	matcher := NewSmartItemMatcher(dict)
	if err := matcher.SetFuzzyThreshold(cfg.FuzzyThreshold); err != nil {
		mlog.WithError(err).Warn("模糊门槛非法，保留默认值")
	}
	return &Analyzer{
		dict:    dict,
		matcher: matcher,
		prices:  &PriceParser{RawCoinCutoff: cfg.RawCoinCutoff},
		seg:     seg,
		cfg:     cfg,
		now:     time.Now,
	}
}

// InstallHooks 注入观测回调
func (a *Analyzer) InstallHooks(h Hooks) {
	a.hooks = h
}

// Match 单token物品解析的直通入口
func (a *Analyzer) Match(rawName string) *ItemMatchResult {
	return a.matcher.Match(rawName)
}

// Dictionary 返回底层词典引用
func (a *Analyzer) Dictionary() *AliasDictionary {
	return a.dict
}

// Analyze 批量解析聊天行，坏行只产生零条记录不报错
func (a *Analyzer) Analyze(lines []string) []*TradeRecord {
	started := a.now()
	var records []*TradeRecord
	for _, line := range lines {
		if a.hooks.OnLine != nil {
			a.hooks.OnLine()
		}
		records = append(records, a.analyzeLine(line)...)
	}

	a.mu.Lock()
	a.recent = append(a.recent, records...)
	if over := len(a.recent) - a.cfg.RecentWindow; over > 0 {
		a.recent = a.recent[over:]
	}
	a.rawLog = append(a.rawLog, lines...)
	if over := len(a.rawLog) - a.cfg.RawLogWindow; over > 0 {
		a.rawLog = a.rawLog[over:]
	}
	a.mu.Unlock()

	if a.hooks.OnLatency != nil {
		a.hooks.OnLatency(a.now().Sub(started))
	}
	return records
}

func (a *Analyzer) analyzeLine(line string) []*TradeRecord {
	norm := NormalizeLine(line)
	runes := []rune(norm)
	if len(runes) < 4 {
		return nil
	}

	lineIntent := InferTradeType(norm, a.cfg.DefaultTradeType)
	tokens := a.prices.FindTokens(norm)

	var consumed spanSet
	var records []*TradeRecord
	seen := map[string]bool{} // 本行已出记录的标准名，兜底扫描去重用

	prevEnd := 0
	for i, tok := range tokens {
		backStart := prevEnd
		fwdEnd := len(runes)
		if i+1 < len(tokens) {
			fwdEnd = tokens[i+1].Start
		}
		backText := string(runes[backStart:tok.Start])

		back := a.matcher.Scan(backText)
		shiftSpan(back, backStart)
		fwd := a.matcher.ScanForward(string(runes[tok.End:fwdEnd]))
		shiftSpan(fwd, tok.End)

		// 物品和真价格之间夹了一个等级数的情况（"武器"在70后面、
		// 35前面这种），把正向窗口扩到等级数之后再找一次
		if fwd == nil && i+1 < len(tokens) && looksLikeLevelValue(tokens[i+1]) {
			extEnd := len(runes)
			if i+2 < len(tokens) {
				extEnd = tokens[i+2].Start
			}
			fwd = a.matcher.ScanForward(string(runes[tok.End:extEnd]))
			shiftSpan(fwd, tok.End)
		}

		chosen, other := chooseByProximity(back, fwd, tok)
		if chosen != nil && consumed.overlaps(chosen.Start, chosen.End) {
			if other != nil && !consumed.overlaps(other.Start, other.End) {
				chosen = other
			} else {
				chosen = nil
			}
		}

		// 价格区间无论成败都记为已消费，免得兜底扫描再碰这串数字
		consumed.add(tok.Start, tok.End)
		prevEnd = tok.End
		if chosen == nil {
			continue
		}

		// 等级数剔除：物品本身带等级属性、数字无单位且落在等级区间、
		// 价格旁边又没有买卖动词，按等级丢弃，物品留给后面的价格
		if a.rejectAsLevel(chosen, tok, runes) {
			continue
		}

		intent := InferTradeType(string(runes[backStart:fwdEnd]), lineIntent)

		// "或"字多选段：同一个价格绑到段里所有物品上
		if chosen.Method == MethodScan && strings.Contains(backText, "或") {
			for _, hit := range a.matcher.ScanAll(backText) {
				shiftSpan(hit, backStart)
				a.emit(&records, seen, &consumed, line, hit, tok.Value, intent)
			}
			continue
		}

		a.emit(&records, seen, &consumed, line, chosen, tok.Value, intent)

		// 正向连报："650W收持国多闻"里多闻紧跟持国，共享同一价格
		if chosen.Method == MethodScanForward {
			last := chosen
			for {
				next := a.matcher.ScanForward(string(runes[last.End:fwdEnd]))
				shiftSpan(next, last.End)
				if next == nil || next.Start-last.End > chainMaxGap {
					break
				}
				a.emit(&records, seen, &consumed, line, next, tok.Value, intent)
				last = next
			}
		}
	}

	// 兜底：没被任何价格消费掉的片段再扫一遍物品，价格记0
	for _, gap := range consumed.gaps(len(runes)) {
		segText := string(runes[gap.start:gap.end])
		hits := a.matcher.ScanAll(segText)
		for _, hit := range hits {
			shiftSpan(hit, gap.start)
			a.emit(&records, seen, &consumed, line, hit, 0, lineIntent)
		}
		if len(hits) > 0 || a.seg == nil {
			continue
		}
		// 别名直扫落空时用分词结果补刀，能救一些错别字
		for _, word := range a.seg.Cut(segText) {
			if m := a.matcher.Match(word); m != nil {
				a.emit(&records, seen, &consumed, line, m, 0, lineIntent)
			}
		}
	}

	return records
}

func (a *Analyzer) emit(records *[]*TradeRecord, seen map[string]bool, consumed *spanSet, line string, m *ItemMatchResult, price float64, intent TradeType) {
	if m == nil {
		return
	}
	if m.Start >= 0 {
		if consumed.overlaps(m.Start, m.End) {
			return
		}
		consumed.add(m.Start, m.End)
	}
	if m.Confidence < a.cfg.ConfidenceFloor {
		return
	}
	// 同一行同一物品的无价记录只出一条；带价记录不受此限
	if price == 0 {
		if seen[m.StandardName] {
			return
		}
	}
	seen[m.StandardName] = true

	rec := &TradeRecord{
		ID:          newRecordID(),
		Item:        m.StandardName,
		TradeType:   intent,
		Price:       price,
		RawText:     line,
		RawName:     m.RawName,
		Category:    m.Category,
		Subcategory: m.Subcategory,
		Confidence:  m.Confidence,
		Timestamp:   a.now(),
	}
	*records = append(*records, rec)
	if a.hooks.OnRecord != nil {
		a.hooks.OnRecord(rec)
	}
}

// rejectAsLevel 判断一个候选价格是否其实是等级/属性数值
func (a *Analyzer) rejectAsLevel(m *ItemMatchResult, tok PriceToken, runes []rune) bool {
	if !looksLikeLevelValue(tok) {
		return false
	}
	if !levelBearingCategories[m.Category] {
		return false
	}
	// 数字紧邻买卖动词时仍按真价格处理，例如"70武器35收"里的35
	lo, hi := tok.Start-2, tok.End+2
	if lo < 0 {
		lo = 0
	}
	if hi > len(runes) {
		hi = len(runes)
	}
	return InferTradeType(string(runes[lo:hi]), "") == ""
}

func looksLikeLevelValue(tok PriceToken) bool {
	return !tok.HasUnit && tok.Value >= levelValueMin && tok.Value <= levelValueMax
}

func chooseByProximity(back, fwd *ItemMatchResult, tok PriceToken) (chosen, other *ItemMatchResult) {
	switch {
	case back == nil && fwd == nil:
		return nil, nil
	case fwd == nil:
		return back, nil
	case back == nil:
		return fwd, nil
	}
	backDist := tok.Start - back.End
	fwdDist := fwd.Start - tok.End
	if fwdDist < backDist {
		return fwd, back
	}
	return back, fwd // 距离相同时优先反向（物品在前价格在后是主流写法）
}

func shiftSpan(m *ItemMatchResult, offset int) {
	if m == nil || m.Start < 0 {
		return
	}
	m.Start += offset
	m.End += offset
}

// span 半开区间[start, end)
type span struct {
	start, end int
}

type spanSet []span

func (s *spanSet) add(start, end int) {
	if end <= start {
		return
	}
	*s = append(*s, span{start, end})
}

func (s spanSet) overlaps(start, end int) bool {
	for _, sp := range s {
		if start < sp.end && sp.start < end {
			return true
		}
	}
	return false
}

// gaps 返回[0, total)里未被覆盖的区间，从左到右
func (s spanSet) gaps(total int) []span {
	covered := make([]bool, total)
	for _, sp := range s {
		for i := sp.start; i < sp.end && i < total; i++ {
			if i >= 0 {
				covered[i] = true
			}
		}
	}
	var out []span
	start := -1
	for i := 0; i <= total; i++ {
		if i < total && !covered[i] {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, span{start, i})
			start = -1
		}
	}
	return out
}
