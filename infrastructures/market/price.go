package market

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultRawCoinCutoff 无单位数字超过该值按游戏币原值处理（除以1万折成万单位）
const DefaultRawCoinCutoff = 10000

// priceTokenRe 行内找价用：报价按惯例不超过5位数字。
// 千万要放在万和千前面，否则会被拆开
var priceTokenRe = regexp.MustCompile(`(\d{1,5}(?:\.\d{1,2})?)\s*(亿|千万|万|[wWmM]|千|[kK])?`)

// priceValueRe 单个片段折算用：不限位数，150000这种原值也要收
var priceValueRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(亿|千万|万|[wWmM]|千|[kK])?$`)

// PriceToken 行内找到的一个候选价格
type PriceToken struct {
	Raw     string  // 原始片段（含单位）
	Value   float64 // 折算成"万"之后的数值
	HasUnit bool    // 是否带显式单位
	Start   int     // 行内字符起始位置
	End     int     // 行内字符结束位置（开区间）
}

// PriceParser 价格解析器
type PriceParser struct {
	// RawCoinCutoff 无单位数字的原值判定线，0取默认
	RawCoinCutoff float64
}

// NewPriceParser 创建价格解析器
func NewPriceParser() *PriceParser {
	return &PriceParser{RawCoinCutoff: DefaultRawCoinCutoff}
}

func (p *PriceParser) cutoff() float64 {
	if p.RawCoinCutoff > 0 {
		return p.RawCoinCutoff
	}
	return DefaultRawCoinCutoff
}

// NormalizePrice 把单个价格片段折算成万单位，非法片段返回0
// 例：15W -> 15，1.2亿 -> 12000，150000 -> 15，8000 -> 8000
func (p *PriceParser) NormalizePrice(token string) float64 {
	token = strings.TrimSpace(token)
	sub := priceValueRe.FindStringSubmatch(token)
	if sub == nil {
		return 0
	}
	return p.convert(sub[1], sub[2])
}

func (p *PriceParser) convert(num, unit string) float64 {
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	switch unit {
	case "亿":
		v *= 10000
	case "千万":
		v *= 1000
	case "万", "w", "W", "m", "M":
		// 已经是万
	case "千", "k", "K":
		v *= 0.1
	case "":
		if v > p.cutoff() {
			v /= 10000
		}
	}
	return math.Round(v*10000) / 10000
}

// FindTokens 找出一行里的全部候选价格。数字紧跟在ASCII字母后面的
// 不算（D3、c66这类编号里的数字），位置按字符计。
func (p *PriceParser) FindTokens(line string) []PriceToken {
	matches := priceTokenRe.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return nil
	}

	// 字节偏移到字符偏移的换算表
	byteToRune := make(map[int]int, len(line)+1)
	runeIdx := 0
	for byteIdx := range line {
		byteToRune[byteIdx] = runeIdx
		runeIdx++
	}
	byteToRune[len(line)] = runeIdx

	tokens := make([]PriceToken, 0, len(matches))
	for _, loc := range matches {
		start, end := loc[0], loc[1]
		if start > 0 && isASCIILetter(line[start-1]) {
			continue
		}
		num := line[loc[2]:loc[3]]
		unit := ""
		if loc[4] >= 0 {
			unit = line[loc[4]:loc[5]]
		}
		value := p.convert(num, unit)
		if value <= 0 {
			continue
		}
		tokens = append(tokens, PriceToken{
			Raw:     line[start:end],
			Value:   value,
			HasUnit: unit != "",
			Start:   byteToRune[start],
			End:     byteToRune[end],
		})
	}
	return tokens
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
