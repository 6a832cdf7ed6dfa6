package market

import (
	"strings"
)

// DefaultFuzzyThreshold 模糊匹配默认门槛。短物品名之间编辑距离很小，
// 门槛压低一点误报就会大量出现。
const DefaultFuzzyThreshold = 0.85

// 各匹配档的置信度
const (
	confidenceExact    = 1.0
	confidenceContains = 0.9
	confidencePhonetic = 0.85
	confidenceScan     = 0.9
)

// SmartItemMatcher 物品名解析器。四档匹配严格按优先级短路：
// 精确 -> 包含 -> 音近 -> 模糊。另提供窗口扫描两个方向的变体。
type SmartItemMatcher struct {
	dict           *AliasDictionary
	fuzzyThreshold float64
}

// NewSmartItemMatcher 创建匹配器
func NewSmartItemMatcher(dict *AliasDictionary) *SmartItemMatcher {
	return &SmartItemMatcher{dict: dict, fuzzyThreshold: DefaultFuzzyThreshold}
}

// SetFuzzyThreshold 调整模糊匹配门槛
func (m *SmartItemMatcher) SetFuzzyThreshold(t float64) error {
	if t < 0 || t > 1 {
		return ErrInvalidThreshold
	}
	m.fuzzyThreshold = t
	return nil
}

// Match 把一个原始token解析成标准物品。规范化后不足2个字符直接放弃，
// 单字命中几乎全是误报。没匹配上返回nil，这是正常结果不是错误。
func (m *SmartItemMatcher) Match(rawName string) *ItemMatchResult {
	normKey := NormalizeKey(rawName)
	normRunes := []rune(normKey)
	if len(normRunes) < 2 {
		return nil
	}

	// 精确
	if name, ok := m.dict.exactMatch(normKey); ok {
		return m.buildResult(name, confidenceExact, MethodExact, rawName)
	}

	// 包含：长度差不超过2，防止2字别名陷进不相干的长串里
	var containsHit string
	m.dict.rangeAliases(func(alias, canonical string) bool {
		aliasLen := len([]rune(alias))
		diff := len(normRunes) - aliasLen
		if diff < 0 {
			diff = -diff
		}
		if diff <= 2 && (strings.Contains(normKey, alias) || strings.Contains(alias, normKey)) {
			containsHit = canonical
			return false
		}
		return true
	})
	if containsHit != "" {
		return m.buildResult(containsHit, confidenceContains, MethodContains, rawName)
	}

	// 音近（provider缺省时整档跳过）
	if key := m.dict.phoneticKey(rawName); key != "" {
		if name, ok := m.dict.phoneticMatch(key); ok {
			return m.buildResult(name, confidencePhonetic, MethodPhonetic, rawName)
		}
	}

	// 模糊：最贵的一档放最后，别名集有限所以可接受
	bestName, bestScore := "", 0.0
	m.dict.rangeAliases(func(alias, canonical string) bool {
		score := lcsRatio(normRunes, []rune(alias))
		if score > bestScore {
			bestName, bestScore = canonical, score
		}
		return true
	})
	if bestName != "" && bestScore >= m.fuzzyThreshold {
		return m.buildResult(bestName, bestScore, MethodFuzzy, rawName)
	}

	return nil
}

// Scan 在一段文本里反向找物品：取所有别名的最右出现，结束位置越靠右
// 越优，平局取更长（更具体）的别名。用于价格token之前的窗口。
func (m *SmartItemMatcher) Scan(text string) *ItemMatchResult {
	return m.scanText(text, false)
}

// ScanForward 对称变体：取最左出现，平局仍取更长别名。
// 用于价格token之后的窗口。
func (m *SmartItemMatcher) ScanForward(text string) *ItemMatchResult {
	return m.scanText(text, true)
}

// ScanAll 找出文本里全部互不重叠的物品命中，从左到右，每个位置
// 取能匹配上的最长别名。用于"或"字多选段的同价绑定。
func (m *SmartItemMatcher) ScanAll(text string) []*ItemMatchResult {
	runes, src := foldRunes(text)
	if len(runes) < 2 {
		return nil
	}

	var results []*ItemMatchResult
	for i := 0; i < len(runes); {
		var hitAlias, hitName string
		m.dict.rangeAliases(func(alias, canonical string) bool {
			ar := []rune(alias)
			if len(ar) > len(runes)-i || len(ar) <= len([]rune(hitAlias)) {
				return true
			}
			if matchAt(runes, ar, i) {
				hitAlias, hitName = alias, canonical
			}
			return true
		})
		if hitAlias == "" {
			i++
			continue
		}
		hitLen := len([]rune(hitAlias))
		result := m.buildResult(hitName, confidenceScan, MethodScan, recoverRawName(text, hitAlias))
		if result != nil {
			result.Start = src[i]
			result.End = src[i+hitLen-1] + 1
			results = append(results, result)
		}
		i += hitLen
	}
	return results
}

type scanHit struct {
	canonical string
	alias     string
	start     int // 规范化文本中的字符位置
	end       int
}

func (m *SmartItemMatcher) scanText(text string, forward bool) *ItemMatchResult {
	runes, src := foldRunes(text)
	if len(runes) < 2 {
		return nil
	}

	var best *scanHit
	m.dict.rangeAliases(func(alias, canonical string) bool {
		ar := []rune(alias)
		if len(ar) == 0 || len(ar) > len(runes) {
			return true
		}
		var idx int
		if forward {
			idx = indexRunes(runes, ar)
		} else {
			idx = lastIndexRunes(runes, ar)
		}
		if idx < 0 {
			return true
		}
		hit := &scanHit{canonical: canonical, alias: alias, start: idx, end: idx + len(ar)}
		if best == nil || betterScanHit(hit, best, forward) {
			best = hit
		}
		return true
	})
	if best == nil {
		return nil
	}

	method := MethodScan
	if forward {
		method = MethodScanForward
	}
	result := m.buildResult(best.canonical, confidenceScan, method, recoverRawName(text, best.alias))
	if result != nil {
		result.Start = src[best.start]
		result.End = src[best.end-1] + 1
	}
	return result
}

func betterScanHit(a, b *scanHit, forward bool) bool {
	if forward {
		if a.start != b.start {
			return a.start < b.start
		}
	} else {
		if a.end != b.end {
			return a.end > b.end
		}
	}
	return a.end-a.start > b.end-b.start
}

// recoverRawName 在原始文本里按大小写不敏感定位别名，找不到就退回
// 规范化别名本身
func recoverRawName(text, alias string) string {
	lower := strings.ToLower(text)
	if idx := strings.Index(lower, alias); idx >= 0 && idx+len(alias) <= len(text) {
		return text[idx : idx+len(alias)]
	}
	return alias
}

func (m *SmartItemMatcher) buildResult(name string, confidence float64, method MatchMethod, rawName string) *ItemMatchResult {
	item, ok := m.dict.Lookup(name)
	if !ok {
		return nil
	}
	return &ItemMatchResult{
		StandardName: item.Name,
		Category:     item.Category,
		Subcategory:  item.Subcategory,
		Confidence:   confidence,
		Method:       method,
		RawName:      rawName,
		Start:        -1,
		End:          -1,
	}
}

// foldRunes 扫描用的逐字符规范化：丢掉汉字/字母/数字以外的字符、
// ASCII转小写，并记录每个保留字符在原文中的字符下标。
// 和NormalizeKey不同，这里不做NFKC，否则位置映射对不上。
func foldRunes(text string) ([]rune, []int) {
	orig := []rune(text)
	runes := make([]rune, 0, len(orig))
	src := make([]int, 0, len(orig))
	for i, r := range orig {
		switch {
		case r >= 0x4e00 && r <= 0x9fa5,
			r >= 'a' && r <= 'z',
			r >= '0' && r <= '9':
			runes = append(runes, r)
			src = append(src, i)
		case r >= 'A' && r <= 'Z':
			runes = append(runes, r+('a'-'A'))
			src = append(src, i)
		}
	}
	return runes, src
}

func indexRunes(hay, needle []rune) int {
	for i := 0; i+len(needle) <= len(hay); i++ {
		if matchAt(hay, needle, i) {
			return i
		}
	}
	return -1
}

func lastIndexRunes(hay, needle []rune) int {
	for i := len(hay) - len(needle); i >= 0; i-- {
		if matchAt(hay, needle, i) {
			return i
		}
	}
	return -1
}

func matchAt(hay, needle []rune, at int) bool {
	for j, r := range needle {
		if hay[at+j] != r {
			return false
		}
	}
	return true
}

// lcsRatio 最长公共子序列比值，范围[0,1]，两串完全一致为1
func lcsRatio(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	lcs := prev[len(b)]
	return 2 * float64(lcs) / float64(len(a)+len(b))
}
