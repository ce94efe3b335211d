package services

import "barterhub_go/models"

// DefaultPageSize 列表页每页数量
const DefaultPageSize = 8

// TotalPages 计算总页数，结果集为空时也至少有1页
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate 返回第page页（1起始）的切片。
// 越界的page返回空切片而不是报错；调用方负责在结果集变化时
// 把页码重置回第1页，避免停留在空页上。
func Paginate(results []models.Listing, page, pageSize int) []models.Listing {
	if pageSize <= 0 || page < 1 {
		return []models.Listing{}
	}

	start := (page - 1) * pageSize
	if start >= len(results) {
		return []models.Listing{}
	}

	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}

	return results[start:end]
}

// ClampPage 把页码收敛到 [1, totalPages] 区间
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageView 一页的视图信息（返回给前端做分页控件）
type PageView struct {
	Items      []models.Listing `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// NewPageView 基于完整结果集构建一页视图
func NewPageView(results []models.Listing, page, pageSize int) PageView {
	return PageView{
		Items:      Paginate(results, page, pageSize),
		Page:       page,
		PageSize:   pageSize,
		Total:      len(results),
		TotalPages: TotalPages(len(results), pageSize),
	}
}
