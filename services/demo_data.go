package services

import (
	"time"

	"barterhub_go/models"
)

// DemoSource 兜底演示数据集。
// 详情页在快照里找不到对应发布时回退到这里，保证分享出去的
// 演示链接仍然可以打开；测试中可以注入别的 FallbackSource 替换。
type DemoSource struct {
	listings []models.Listing
}

// NewDemoSource 创建内置演示数据集
func NewDemoSource() *DemoSource {
	now := time.Now()
	demo := []models.Listing{
		{
			ID:             "demo-1",
			Title:          "Vintage Record Player",
			Description:    "Fully functional turntable from the 70s, recently serviced.",
			Category:       "Electronics",
			Condition:      "Good",
			ExchangeMethod: "In-person",
			LookingFor:     "Vinyl records or a decent pair of bookshelf speakers",
			Location:       "Portland, OR",
			CreatedAt:      now.Add(-96 * time.Hour),
			UserID:         "demo-user-1",
			User:           models.User{Name: "Alex", Image: "/placeholder.svg?text=A"},
		},
		{
			ID:             "demo-2",
			Title:          "Desk Lamp",
			Description:    "Barely used adjustable desk lamp, warm white LED.",
			Category:       "Furniture",
			Condition:      "Like New",
			ExchangeMethod: "Both options",
			LookingFor:     "Books or board games",
			Location:       "Portland, OR",
			CreatedAt:      now.Add(-72 * time.Hour),
			UserID:         "demo-user-2",
			User:           models.User{Name: "Sam", Image: "/placeholder.svg?text=S"},
		},
		{
			ID:             "demo-3",
			Title:          "Guitar Lessons",
			Description:    "One hour of beginner guitar lessons, acoustic or electric.",
			Category:       "Services",
			Condition:      models.ConditionNotSpecified,
			ExchangeMethod: "In-person",
			LookingFor:     "Home-cooked meals or garden produce",
			Location:       "Beaverton, OR",
			CreatedAt:      now.Add(-48 * time.Hour),
			UserID:         "demo-user-3",
			User:           models.User{Name: "Jordan", Image: "/placeholder.svg?text=J"},
		},
		{
			ID:             "demo-4",
			Title:          "Hiking Backpack 45L",
			Description:    "Sturdy trekking backpack, rain cover included.",
			Category:       "Sports",
			Condition:      "Fair",
			ExchangeMethod: "Shipping",
			LookingFor:     "Camping stove or sleeping bag",
			Location:       "Salem, OR",
			CreatedAt:      now.Add(-24 * time.Hour),
			UserID:         "demo-user-4",
			User:           models.User{Name: "Riley", Image: "/placeholder.svg?text=R"},
		},
	}

	for i := range demo {
		demo[i].SetImageList([]string{"/placeholder.svg?height=300&width=400"})
	}

	return &DemoSource{listings: demo}
}

// Lookup 按ID查找演示发布
func (d *DemoSource) Lookup(id string) (*models.Listing, bool) {
	for i := range d.listings {
		if d.listings[i].ID == id {
			listing := d.listings[i]
			return &listing, true
		}
	}
	return nil, false
}

// All 返回全部演示发布（用于空库启动时的占位展示）
func (d *DemoSource) All() []models.Listing {
	out := make([]models.Listing, len(d.listings))
	copy(out, d.listings)
	return out
}
