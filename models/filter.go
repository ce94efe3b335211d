package models

// 筛选项的哨兵值和排序枚举
const (
	FilterAny = "any" // 不限制

	SortRecent = "recent" // 最新优先
	SortOldest = "oldest" // 最早优先

	// FilterMethodBoth 交换方式筛选的特殊值："both" 额外匹配
	// exchangeMethod 为 "Both options" 的发布（显式等价规则）
	FilterMethodBoth = "both"

	// ExchangeMethodBothOptions 发布上"两种方式均可"的字面值
	ExchangeMethodBothOptions = "Both options"

	// DefaultMaxDistance 默认最大距离（英里）。目前不参与筛选，
	// 前端滑块保留该值，后续接入地理数据源后再启用。
	DefaultMaxDistance = 50
)

// FilterOptions 用户当前的查询意图
// Categories 为空表示不限分类（不是"全都不匹配"）；
// Condition / ExchangeMethod 为 "any" 表示不限制。
type FilterOptions struct {
	Categories     []string `json:"categories"`
	Condition      string   `json:"condition"`
	ExchangeMethod string   `json:"exchangeMethod"`
	MaxDistance    int      `json:"maxDistance"`
	SortBy         string   `json:"sortBy"`
}

// DefaultFilterOptions 返回默认筛选配置：无筛选，按最新排序
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Categories:     []string{},
		Condition:      FilterAny,
		ExchangeMethod: FilterAny,
		MaxDistance:    DefaultMaxDistance,
		SortBy:         SortRecent,
	}
}

// Normalize 防御性归一化：无法识别的枚举值按"不限制"处理，
// 而不是报错（字段本应由前端约束为合法枚举）
func (f FilterOptions) Normalize() FilterOptions {
	out := f
	if out.Categories == nil {
		out.Categories = []string{}
	}

	// 分类只保留固定枚举内的值，并去重（集合语义）
	seen := make(map[string]bool, len(out.Categories))
	categories := make([]string, 0, len(out.Categories))
	for _, c := range out.Categories {
		if IsValidCategory(c) && !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	out.Categories = categories

	if out.Condition != FilterAny && !IsValidCondition(out.Condition) {
		out.Condition = FilterAny
	}

	if !isValidMethodFilter(out.ExchangeMethod) {
		out.ExchangeMethod = FilterAny
	}

	if out.SortBy != SortRecent && out.SortBy != SortOldest {
		out.SortBy = SortRecent
	}

	if out.MaxDistance <= 0 {
		out.MaxDistance = DefaultMaxDistance
	}

	return out
}

// HasCategory 判断分类是否在筛选集合内
func (f FilterOptions) HasCategory(category string) bool {
	for _, c := range f.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// IsDefault 判断是否为默认配置（用于前端"无活跃筛选"提示）
func (f FilterOptions) IsDefault() bool {
	return len(f.Categories) == 0 &&
		f.Condition == FilterAny &&
		f.ExchangeMethod == FilterAny &&
		f.SortBy == SortRecent
}

// Clone 深拷贝（Categories是切片，直接赋值会共享底层数组）
func (f FilterOptions) Clone() FilterOptions {
	out := f
	out.Categories = make([]string, len(f.Categories))
	copy(out.Categories, f.Categories)
	return out
}

// isValidMethodFilter 交换方式筛选值：any / in-person / shipping / both
func isValidMethodFilter(method string) bool {
	switch method {
	case FilterAny, "in-person", "shipping", FilterMethodBoth:
		return true
	}
	// 也允许直接用发布上的字面值筛选
	return IsValidExchangeMethod(method)
}
