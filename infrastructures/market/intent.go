package market

import "strings"

// 交易意图关键词。次数相同的时候位置靠后的压过前面的，
// 对应"A换B，或者15W出售"这种最后一个动词管整行的说法习惯。
var (
	buyKeywords  = []string{"求购", "回收", "收购", "高收", "大量收", "收"}
	sellKeywords = []string{"出售", "甩卖", "出", "卖", "甩", "带走"}

	buyFallbackChars  = []string{"收"}
	sellFallbackChars = []string{"出", "卖", "让", "带走"}
)

// InferTradeType 判断一段文本的买卖意图，判不出来时退回def，
// def也为空则返回空串。
func InferTradeType(text string, def TradeType) TradeType {
	buyCount, buyLast := countKeywords(text, buyKeywords)
	sellCount, sellLast := countKeywords(text, sellKeywords)

	switch {
	case buyCount > sellCount && buyCount > 0:
		return TradeBuy
	case sellCount > buyCount && sellCount > 0:
		return TradeSell
	case buyCount > 0 && sellCount > 0:
		// 平局看最右出现位置
		if buyLast > sellLast {
			return TradeBuy
		}
		return TradeSell
	}

	// 单字兜底
	for _, kw := range buyFallbackChars {
		if strings.Contains(text, kw) {
			return TradeBuy
		}
	}
	for _, kw := range sellFallbackChars {
		if strings.Contains(text, kw) {
			return TradeSell
		}
	}
	return def
}

// countKeywords 统计关键词出现次数并记录最右出现的字节位置
func countKeywords(text string, keywords []string) (count, last int) {
	last = -1
	for _, kw := range keywords {
		n := strings.Count(text, kw)
		if n == 0 {
			continue
		}
		count += n
		if idx := strings.LastIndex(text, kw); idx > last {
			last = idx
		}
	}
	return count, last
}
