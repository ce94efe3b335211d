package services

import (
	"sync"

	"barterhub_go/models"
)

// FilterBuilder 管理筛选配置的暂存/提交两份状态。
// 筛选弹窗里的修改先落在暂存副本上，点"Apply"才会提交生效，
// 提交之前不影响当前展示的结果；"Reset"同时恢复默认配置并清空搜索词
// （重置是针对 配置+搜索词 的联合动作）。
type FilterBuilder struct {
	mu         sync.Mutex
	staged     models.FilterOptions
	committed  models.FilterOptions
	searchText string
}

// NewFilterBuilder 创建构建器，初始为默认配置
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		staged:    models.DefaultFilterOptions(),
		committed: models.DefaultFilterOptions(),
	}
}

// ToggleCategory 在暂存配置里添加/移除分类（集合语义，不会重复）
func (fb *FilterBuilder) ToggleCategory(category string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	for i, c := range fb.staged.Categories {
		if c == category {
			fb.staged.Categories = append(fb.staged.Categories[:i], fb.staged.Categories[i+1:]...)
			return
		}
	}
	fb.staged.Categories = append(fb.staged.Categories, category)
}

// SetCondition 设置暂存配置的成色筛选
func (fb *FilterBuilder) SetCondition(condition string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.staged.Condition = condition
}

// SetExchangeMethod 设置暂存配置的交换方式筛选
func (fb *FilterBuilder) SetExchangeMethod(method string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.staged.ExchangeMethod = method
}

// SetMaxDistance 设置暂存配置的最大距离
func (fb *FilterBuilder) SetMaxDistance(distance int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.staged.MaxDistance = distance
}

// SetSortBy 设置暂存配置的排序方式
func (fb *FilterBuilder) SetSortBy(sortBy string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.staged.SortBy = sortBy
}

// SetSearchText 设置搜索词（搜索框即输即用，不走暂存）
func (fb *FilterBuilder) SetSearchText(text string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.searchText = text
}

// Apply 把暂存配置归一化后提交为生效配置
func (fb *FilterBuilder) Apply() models.FilterOptions {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	fb.committed = fb.staged.Normalize().Clone()
	fb.staged = fb.committed.Clone()
	return fb.committed.Clone()
}

// Discard 放弃暂存的修改（弹窗未提交直接关闭）
func (fb *FilterBuilder) Discard() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.staged = fb.committed.Clone()
}

// Reset 恢复默认配置并清空搜索词，立即生效
func (fb *FilterBuilder) Reset() {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	fb.staged = models.DefaultFilterOptions()
	fb.committed = models.DefaultFilterOptions()
	fb.searchText = ""
}

// Committed 返回当前生效的配置副本
func (fb *FilterBuilder) Committed() models.FilterOptions {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.committed.Clone()
}

// Staged 返回暂存配置副本（用于回显弹窗状态）
func (fb *FilterBuilder) Staged() models.FilterOptions {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.staged.Clone()
}

// SearchText 返回当前搜索词
func (fb *FilterBuilder) SearchText() string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.searchText
}
