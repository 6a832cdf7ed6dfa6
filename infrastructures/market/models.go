package market

import (
	"time"

	uuid "github.com/satori/go.uuid"
)

// Category 物品大类
type Category = string

const (
	CategoryHardCurrency Category = "硬通货"  // 宝石、炼妖内丹等保值物资
	CategoryGear         Category = "军火装备" // 武器、防具
	CategoryPet          Category = "宝宝炼妖" // 召唤兽、兽决、炼妖材料
	CategoryConsumable   Category = "消耗品"  // 药品、果实类
	CategoryTalisman     Category = "临时符"  // 临时属性符
	CategoryEscort       Category = "收费带队" // 烧双、抓鬼等带队服务
	CategoryGrocery      Category = "杂货"   // 其他常见交易物
	CategoryMisc         Category = "杂项"   // 自动学习兜底分类
)

// TradeType 交易方向
type TradeType string

const (
	TradeBuy  TradeType = "buy"  // 收购
	TradeSell TradeType = "sell" // 出售
)

// MatchMethod 匹配方式，按置信度从高到低排列
type MatchMethod string

const (
	MethodExact       MatchMethod = "exact"    // 别名精确命中
	MethodContains    MatchMethod = "contains" // 短差值包含
	MethodPhonetic    MatchMethod = "phonetic" // 拼音键命中
	MethodFuzzy       MatchMethod = "fuzzy"    // 编辑相似度
	MethodScan        MatchMethod = "scan"     // 窗口反向扫描
	MethodScanForward MatchMethod = "scan_fwd" // 窗口正向扫描
)

// RecordStatusLearned 经过人工纠正回填的记录状态
const RecordStatusLearned = "learned"

// CanonicalItem 标准物品，Name为全局唯一键
type CanonicalItem struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory"`
	Aliases     []string `json:"aliases"`            // 始终包含标准名自身
	Keywords    []string `json:"keywords,omitempty"` // 分类推断用关键词
}

// ItemConfig 词典文档中单个物品的值，按标准名为键持久化
type ItemConfig struct {
	Aliases     []string `json:"aliases"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory"`
	Keywords    []string `json:"keywords,omitempty"`
}

// ItemMatchResult 一次匹配的临时结果，不直接持久化
type ItemMatchResult struct {
	StandardName string      `json:"standard_name"`
	Category     Category    `json:"category"`
	Subcategory  string      `json:"subcategory"`
	Confidence   float64     `json:"confidence"` // [0,1]
	Method       MatchMethod `json:"method"`
	RawName      string      `json:"raw_name"` // 触发匹配的原始片段
	Start        int         `json:"-"`        // 扫描命中在原文中的字符区间
	End          int         `json:"-"`
}

// TradeRecord 解析出的交易记录，价格单位为万，0表示只见到物品没报价
type TradeRecord struct {
	ID          string    `json:"id"`
	Item        string    `json:"item"` // 标准名，必须存在于词典
	TradeType   TradeType `json:"trade_type"`
	Price       float64   `json:"price"`
	RawText     string    `json:"raw_text"`
	RawName     string    `json:"raw_name"`
	Category    Category  `json:"category"`
	Subcategory string    `json:"subcategory"`
	Confidence  float64   `json:"confidence"`
	Status      string    `json:"status,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func newRecordID() string {
	return uuid.NewV4().String()
}
