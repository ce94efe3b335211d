package services

import (
	"sort"
	"strings"

	"barterhub_go/models"
)

// ApplyQuery 对发布列表执行搜索、筛选、排序，返回新的结果集。
// 纯函数：不修改输入，相同输入总是产生相同输出。
// 各步骤按固定顺序执行，筛选条件之间是 AND 关系：
//  1. 搜索：标题/描述/分类/希望换取 四个字段做大小写不敏感的子串匹配
//  2. 分类：集合为空不限制，否则要求精确命中（区分大小写）
//  3. 成色：哨兵值 "any" 不限制，否则精确相等
//  4. 交换方式："any" 不限制；"both" 额外匹配字面值 "Both options"
//  5. 排序：按 createdAt 稳定排序，时间相同保持输入顺序
func ApplyQuery(listings []models.Listing, searchText string, opts models.FilterOptions) []models.Listing {
	opts = opts.Normalize()

	results := make([]models.Listing, 0, len(listings))
	results = append(results, listings...)

	if searchText != "" {
		query := strings.ToLower(searchText)
		results = filterListings(results, func(l models.Listing) bool {
			return strings.Contains(strings.ToLower(l.Title), query) ||
				strings.Contains(strings.ToLower(l.Description), query) ||
				strings.Contains(strings.ToLower(l.Category), query) ||
				strings.Contains(strings.ToLower(l.LookingFor), query)
		})
	}

	if len(opts.Categories) > 0 {
		results = filterListings(results, func(l models.Listing) bool {
			return opts.HasCategory(l.Category)
		})
	}

	if opts.Condition != models.FilterAny {
		results = filterListings(results, func(l models.Listing) bool {
			return l.Condition == opts.Condition
		})
	}

	if opts.ExchangeMethod != models.FilterAny {
		results = filterListings(results, func(l models.Listing) bool {
			if l.ExchangeMethod == opts.ExchangeMethod {
				return true
			}
			return opts.ExchangeMethod == models.FilterMethodBoth &&
				l.ExchangeMethod == models.ExchangeMethodBothOptions
		})
	}

	switch opts.SortBy {
	case models.SortOldest:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		})
	default: // recent
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		})
	}

	return results
}

// filterListings 原地过滤，避免每一步都重新分配
func filterListings(listings []models.Listing, keep func(models.Listing) bool) []models.Listing {
	out := listings[:0]
	for _, l := range listings {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
