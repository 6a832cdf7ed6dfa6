package market

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// PhoneticProvider 拼音键能力，可插拔：词典和匹配器只在provider非nil时
// 才走音近匹配，缺省时优雅降级为跳过该档。
type PhoneticProvider interface {
	// Key 返回文本的音译键，无法计算时返回空串
	Key(text string) string
}

// PinyinProvider 基于go-pinyin的默认实现
type PinyinProvider struct {
	args pinyin.Args
}

// NewPinyinProvider 创建拼音键提供者
func NewPinyinProvider() *PinyinProvider {
	args := pinyin.NewArgs()
	args.Style = pinyin.Normal
	args.Heteronym = false
	args.Fallback = func(r rune, a pinyin.Args) []string {
		return []string{strings.ToLower(string(r))}
	}
	return &PinyinProvider{args: args}
}

// Key 汉字逐字转无声调拼音后拼接；不含汉字的文本不生成键，
// 避免纯字母别名在音近表里自己撞自己。
func (p *PinyinProvider) Key(text string) string {
	if !containsHan(text) {
		return ""
	}
	parts := pinyin.LazyConvert(text, &p.args)
	return strings.Join(parts, "")
}

func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
