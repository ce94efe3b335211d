package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// 分类、成色、交换方式的固定枚举
var (
	ListingCategories = []string{"Electronics", "Furniture", "Clothing", "Books", "Sports", "Services", "Other"}
	ConditionTypes    = []string{"New", "Like New", "Good", "Fair", "Poor"}
	ExchangeMethods   = []string{"In-person", "Shipping", "Both options"}
)

// ConditionNotSpecified 未填写成色时的默认值
const ConditionNotSpecified = "Not specified"

// Listing 置换发布模型
type Listing struct {
	ID             string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title          string         `gorm:"type:varchar(200);not null;index" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Category       string         `gorm:"type:varchar(50);index" json:"category"`
	Condition      string         `gorm:"type:varchar(20);comment:New,Like New,Good,Fair,Poor,Not specified" json:"condition"`
	ExchangeMethod string         `gorm:"type:varchar(20);comment:In-person,Shipping,Both options" json:"exchangeMethod"`
	LookingFor     string         `gorm:"type:text;comment:希望换取的物品描述" json:"lookingFor"`
	Images         string         `gorm:"type:text;comment:JSON数组字符串" json:"-"` // 存储JSON数组，第一张为封面
	Location       string         `gorm:"type:varchar(100)" json:"location"`
	UserID         string         `gorm:"type:varchar(36);index;not null" json:"userId"`
	SaveCount      int64          `gorm:"default:0" json:"save_count"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联关系
	User    User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SavedBy []SavedListing `gorm:"foreignKey:ListingID" json:"saved_by,omitempty"`
}

// SavedListing 收藏模型
type SavedListing struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	ListingID string    `gorm:"type:varchar(36);index;not null" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`

	// 关联关系
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Listing Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}

// TableName 指定表名
func (Listing) TableName() string {
	return "listings"
}

func (SavedListing) TableName() string {
	return "saved_listings"
}

// BeforeCreate 创建前钩子
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateUUID()
	}
	if l.Condition == "" {
		l.Condition = ConditionNotSpecified
	}
	return nil
}

func (s *SavedListing) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = generateUUID()
	}
	return nil
}

// ImageList 解析图片JSON数组
func (l *Listing) ImageList() []string {
	if l.Images == "" {
		return nil
	}
	var images []string
	if err := json.Unmarshal([]byte(l.Images), &images); err != nil {
		return nil
	}
	return images
}

// SetImageList 序列化图片数组
func (l *Listing) SetImageList(images []string) {
	data, _ := json.Marshal(images)
	l.Images = string(data)
}

// CoverImage 封面图（第一张），没有图片时返回空字符串
func (l *Listing) CoverImage() string {
	images := l.ImageList()
	if len(images) == 0 {
		return ""
	}
	return images[0]
}

// MarshalJSON 输出时把Images展开成数组
func (l Listing) MarshalJSON() ([]byte, error) {
	type Alias Listing
	return json.Marshal(&struct {
		Alias
		Images []string `json:"images"`
	}{
		Alias:  (Alias)(l),
		Images: l.ImageList(),
	})
}

// UnmarshalJSON 解析时把images数组还原成JSON字符串存储
func (l *Listing) UnmarshalJSON(data []byte) error {
	type Alias Listing
	aux := &struct {
		*Alias
		Images []string `json:"images"`
	}{
		Alias: (*Alias)(l),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if len(aux.Images) > 0 {
		l.SetImageList(aux.Images)
	}
	return nil
}

// IsValidCategory 检查分类是否在枚举内
func IsValidCategory(category string) bool {
	for _, c := range ListingCategories {
		if c == category {
			return true
		}
	}
	return false
}

// IsValidCondition 检查成色是否在枚举内
func IsValidCondition(condition string) bool {
	if condition == ConditionNotSpecified {
		return true
	}
	for _, c := range ConditionTypes {
		if c == condition {
			return true
		}
	}
	return false
}

// IsValidExchangeMethod 检查交换方式是否在枚举内
func IsValidExchangeMethod(method string) bool {
	for _, m := range ExchangeMethods {
		if m == method {
			return true
		}
	}
	return false
}
