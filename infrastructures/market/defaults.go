package market

// 内置默认词典。用户词典按标准名覆盖合并，缺省项永远可用。
// 别名约定：第一项是标准名自身，后面是常见缩写、错写和黑话。
func defaultItems() map[string]ItemConfig {
	return map[string]ItemConfig{
		// 硬通货 - 宝石
		"黑宝石":  {Aliases: []string{"黑宝石", "黑宝"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"星辉石":  {Aliases: []string{"星辉石", "星辉"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"红玛瑙":  {Aliases: []string{"红玛瑙", "玛瑙"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"舍利子":  {Aliases: []string{"舍利子", "舍利"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"月亮石":  {Aliases: []string{"月亮石", "月亮"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"太阳石":  {Aliases: []string{"太阳石", "太阳"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"光芒石":  {Aliases: []string{"光芒石", "光芒"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"翡翠石":  {Aliases: []string{"翡翠石", "翡翠"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"五色灵尘": {Aliases: []string{"五色灵尘", "灵尘", "五色"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"金刚石":  {Aliases: []string{"金刚石", "金刚"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"定魂珠":  {Aliases: []string{"定魂珠", "定魂"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"夜光珠":  {Aliases: []string{"夜光珠", "夜光"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"避水珠":  {Aliases: []string{"避水珠", "避水", "碧水"}, Category: CategoryHardCurrency, Subcategory: "宝石"},
		"强化石":  {Aliases: []string{"强化石", "强化"}, Category: CategoryHardCurrency, Subcategory: "打造材料"},

		// 消耗品
		"超级金柳露": {Aliases: []string{"超级金柳露", "超级金柳", "C66", "超66"}, Category: CategoryConsumable, Subcategory: "药品"},
		"金柳露":   {Aliases: []string{"金柳露"}, Category: CategoryConsumable, Subcategory: "药品"},
		"彩果":    {Aliases: []string{"彩果", "彩色果实"}, Category: CategoryConsumable, Subcategory: "果实"},
		"仙露丸子":  {Aliases: []string{"仙露丸子", "仙露"}, Category: CategoryConsumable, Subcategory: "药品"},
		"神兜兜":   {Aliases: []string{"神兜兜", "兜兜"}, Category: CategoryConsumable, Subcategory: "法宝材料"},
		"炼兽真经":  {Aliases: []string{"炼兽真经", "真经"}, Category: CategoryConsumable, Subcategory: "宝宝用书"},
		"树苗":    {Aliases: []string{"树苗"}, Category: CategoryConsumable, Subcategory: "庭院"},
		"月华露":   {Aliases: []string{"月华露", "月华"}, Category: CategoryConsumable, Subcategory: "药品"},

		// 宝宝炼妖 - 召唤兽
		"持国天王": {Aliases: []string{"持国天王", "持国"}, Category: CategoryPet, Subcategory: "召唤兽"},
		"多闻天王": {Aliases: []string{"多闻天王", "多闻"}, Category: CategoryPet, Subcategory: "召唤兽"},
		"广目天王": {Aliases: []string{"广目天王", "广目"}, Category: CategoryPet, Subcategory: "召唤兽"},
		"增长天王": {Aliases: []string{"增长天王", "增长"}, Category: CategoryPet, Subcategory: "召唤兽"},
		"谛听":   {Aliases: []string{"谛听"}, Category: CategoryPet, Subcategory: "召唤兽"},
		"涂山瞳":  {Aliases: []string{"涂山瞳", "涂山"}, Category: CategoryPet, Subcategory: "召唤兽"},
		"龙龟":   {Aliases: []string{"龙龟"}, Category: CategoryPet, Subcategory: "召唤兽"},
		"龙鳞":   {Aliases: []string{"龙鳞"}, Category: CategoryPet, Subcategory: "炼妖材料"},

		// 宝宝炼妖 - 兽决
		"必杀":   {Aliases: []string{"必杀"}, Category: CategoryPet, Subcategory: "兽决"},
		"夜战":   {Aliases: []string{"夜战"}, Category: CategoryPet, Subcategory: "兽决"},
		"偷袭":   {Aliases: []string{"偷袭"}, Category: CategoryPet, Subcategory: "兽决"},
		"吸血":   {Aliases: []string{"吸血"}, Category: CategoryPet, Subcategory: "兽决"},
		"吸收":   {Aliases: []string{"吸收"}, Category: CategoryPet, Subcategory: "兽决"},
		"连环":   {Aliases: []string{"连环"}, Category: CategoryPet, Subcategory: "兽决"},
		"矫健":   {Aliases: []string{"矫健"}, Category: CategoryPet, Subcategory: "兽决"},
		"狂怒":   {Aliases: []string{"狂怒"}, Category: CategoryPet, Subcategory: "兽决"},
		"撞击":   {Aliases: []string{"撞击"}, Category: CategoryPet, Subcategory: "兽决"},
		"灵光":   {Aliases: []string{"灵光"}, Category: CategoryPet, Subcategory: "兽决"},
		"灵身":   {Aliases: []string{"灵身"}, Category: CategoryPet, Subcategory: "兽决"},
		"迅敏":   {Aliases: []string{"迅敏"}, Category: CategoryPet, Subcategory: "兽决"},
		"静岳":   {Aliases: []string{"静岳", "静月"}, Category: CategoryPet, Subcategory: "兽决"},
		"水漫金山": {Aliases: []string{"水漫金山", "大雨"}, Category: CategoryPet, Subcategory: "兽决"},
		"水攻":   {Aliases: []string{"水攻", "小雨"}, Category: CategoryPet, Subcategory: "兽决"},
		"高级必杀": {Aliases: []string{"高级必杀", "高必杀"}, Category: CategoryPet, Subcategory: "高级兽决"},
		"高级神佑": {Aliases: []string{"高级神佑", "高神佑", "神佑"}, Category: CategoryPet, Subcategory: "高级兽决"},
		"高级连击": {Aliases: []string{"高级连击", "高连击", "连击"}, Category: CategoryPet, Subcategory: "高级兽决"},
		"高级偷袭": {Aliases: []string{"高级偷袭", "高偷袭"}, Category: CategoryPet, Subcategory: "高级兽决"},
		"高级吸血": {Aliases: []string{"高级吸血", "高吸血"}, Category: CategoryPet, Subcategory: "高级兽决"},
		"高级连环": {Aliases: []string{"高级连环", "高连环"}, Category: CategoryPet, Subcategory: "高级兽决"},

		// 临时符
		"伤害符": {Aliases: []string{"伤害符", "伤害F", "伤害FF", "伤符"}, Category: CategoryTalisman, Subcategory: "伤害"},
		"体质符": {Aliases: []string{"体质符", "体FF", "体F", "体质F"}, Category: CategoryTalisman, Subcategory: "体质"},
		"命中符": {Aliases: []string{"命中符", "命中FF", "命中F"}, Category: CategoryTalisman, Subcategory: "命中"},
		"防御符": {Aliases: []string{"防御符", "防御F", "防御"}, Category: CategoryTalisman, Subcategory: "防御"},
		"速度符": {Aliases: []string{"速度符", "速度F", "速度"}, Category: CategoryTalisman, Subcategory: "速度"},
		"法伤符": {Aliases: []string{"法伤符", "法伤"}, Category: CategoryTalisman, Subcategory: "法伤"},
		"魔力符": {Aliases: []string{"魔力符", "魔力"}, Category: CategoryTalisman, Subcategory: "魔力"},

		// 收费带队
		"D3": {Aliases: []string{"D3", "烧双", "地三"}, Category: CategoryEscort, Subcategory: "烧双"},
		"飞贼": {Aliases: []string{"飞贼"}, Category: CategoryEscort, Subcategory: "捉贼"},
		"抓鬼": {Aliases: []string{"抓鬼"}, Category: CategoryEscort, Subcategory: "抓鬼"},

		// 军火装备
		"武器": {Aliases: []string{"武器"}, Category: CategoryGear, Subcategory: "武器"},
	}
}

// categoryKeyword 分类推断关键词，EnsureEntry按表顺序扫描物品名
type categoryKeyword struct {
	category Category
	words    []string
}

// 顺序即优先级：更专的分类放前面
var categoryKeywords = []categoryKeyword{
	{CategoryTalisman, []string{"符"}},
	{CategoryPet, []string{"天王", "兽决", "宝宝", "炼妖", "真经", "童子"}},
	{CategoryEscort, []string{"烧双", "带队", "抓鬼", "副本", "车"}},
	{CategoryGear, []string{"武器", "装备", "头盔", "项链", "腰带", "铠甲"}},
	{CategoryHardCurrency, []string{"宝石", "玛瑙", "舍利", "灵尘", "石", "珠"}},
	{CategoryConsumable, []string{"露", "丸", "果", "兜兜", "树苗", "药"}},
}

// levelBearingCategories 自带等级/属性数值的分类，这些分类旁边的
// 裸数字更可能是等级而不是报价
var levelBearingCategories = map[Category]bool{
	CategoryGear:     true,
	CategoryTalisman: true,
	CategoryEscort:   true,
}
