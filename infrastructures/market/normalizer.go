package market

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// 逐条应用的清洗规则，顺序敏感：时间戳先于方括号，颜色码先于括号内容。
var (
	timestampRe = regexp.MustCompile(`\[\d{1,2}:\d{2}:\d{2}\]`)
	bracketRe   = regexp.MustCompile(`\[[^\[\]]+\]`)
	punctRe     = regexp.MustCompile("[“”‘’\"'；;：:！!？?、，。《》〈〉【】〖〗…~·]")
	colorCodeRe = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3}|[A-Z]|\d+)`)
	parenRe     = regexp.MustCompile(`[（(][^（）()]*[）)]`)
	sceneRe     = regexp.MustCompile(`([在去到来])\d{1,4}([^wWkKmM万千亿\d.]|$)`)
	splitNumRe  = regexp.MustCompile(`(\d)\s+(\d)`)
	slangRe     = regexp.MustCompile(`[cC超]66`)
	spaceRe     = regexp.MustCompile(`\s+`)

	// 方括号里是报价的不能当玩家名删掉
	priceLikeRe = regexp.MustCompile(`^\d+(?:\.\d+)?[wWkKmM万千亿]?$`)
)

// 超66/C66统一成标准消耗品名，避免裸"66"被误读成价格
const slangCanonical = "超级金柳露"

// NormalizeLine 清洗一行聊天文本。纯函数，任何输入都不报错。
func NormalizeLine(raw string) string {
	if raw == "" {
		return ""
	}

	s := timestampRe.ReplaceAllString(raw, " ")

	// 玩家名标签：2~10个字符且不像报价的方括号内容
	s = bracketRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := strings.TrimSpace(m[1 : len(m)-1])
		n := utf8.RuneCountInString(inner)
		if n >= 2 && n <= 10 && !priceLikeRe.MatchString(inner) {
			return " "
		}
		return m
	})

	s = punctRe.ReplaceAllString(s, " ")
	s = colorCodeRe.ReplaceAllString(s, " ")
	s = parenRe.ReplaceAllString(s, " ")

	// 场景引用："在703" -> "在"，保留动词丢掉场景号
	s = sceneRe.ReplaceAllString(s, "$1$2")

	// OCR常把一个数字拆成两半，反复合并到稳定
	for {
		merged := splitNumRe.ReplaceAllString(s, "$1$2")
		if merged == s {
			break
		}
		s = merged
	}

	s = slangRe.ReplaceAllString(s, slangCanonical)

	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
