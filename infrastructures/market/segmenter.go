package market

import (
	"strings"
	"sync"

	"github.com/go-ego/gse"
)

// ItemSegmenter 物品分词器。通用词典打底，再把别名表灌进去保证
// 游戏物品名不被拆散。只在剩余文本兜底扫描里用，属可选组件。
type ItemSegmenter struct {
	gse         gse.Segmenter
	mu          sync.RWMutex
	initialized bool
}

// NewItemSegmenter 用词典里的全部别名创建分词器，初始化失败返回nil
func NewItemSegmenter(dict *AliasDictionary) *ItemSegmenter {
	seg := &ItemSegmenter{}
	if err := seg.gse.LoadDict(); err != nil {
		mlog.WithError(err).Warn("分词器词典加载失败")
		return nil
	}
	if dict != nil {
		seg.Reseed(dict)
	}
	seg.initialized = true
	return seg
}

// Reseed 按当前别名表重灌自定义词条，词典学习新词后调用
func (seg *ItemSegmenter) Reseed(dict *AliasDictionary) {
	seg.mu.Lock()
	defer seg.mu.Unlock()

	dict.rangeAliases(func(alias, canonical string) bool {
		seg.gse.AddToken(alias, 1000, "n")
		if canonical != alias {
			seg.gse.AddToken(canonical, 1000, "n")
		}
		return true
	})
}

// Cut 分词，过滤空白片段
func (seg *ItemSegmenter) Cut(text string) []string {
	if seg == nil || !seg.initialized {
		return nil
	}
	seg.mu.RLock()
	defer seg.mu.RUnlock()

	segments := seg.gse.Cut(text, true)
	words := make([]string, 0, len(segments))
	for _, w := range segments {
		if strings.TrimSpace(w) == "" {
			continue
		}
		words = append(words, w)
	}
	return words
}
