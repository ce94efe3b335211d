package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	ID         string         `gorm:"type:varchar(36);primaryKey;comment:用户ID (UUID)" json:"id"`
	Name       string         `gorm:"type:varchar(50);not null;comment:显示名称" json:"name"`
	Email      string         `gorm:"type:varchar(100);uniqueIndex;not null;comment:邮箱" json:"email"`
	Password   string         `gorm:"type:varchar(255);not null;comment:密码" json:"-"` // 不返回给前端
	Image      string         `gorm:"type:varchar(255);comment:头像" json:"image,omitempty"`
	Location   string         `gorm:"type:varchar(100);comment:所在地" json:"location,omitempty"`
	Bio        string         `gorm:"type:text;comment:个人简介" json:"bio,omitempty"`
	Status     int            `gorm:"default:1;comment:状态: 1=正常, 0=禁用" json:"status"`
	LastLogin  *time.Time     `gorm:"comment:最后登录时间" json:"last_login,omitempty"`
	LoginCount int            `gorm:"default:0;comment:登录次数" json:"login_count"`
	CreatedAt  time.Time      `gorm:"comment:创建时间" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"comment:更新时间" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index;comment:删除时间" json:"-"` // 软删除

	// 关联关系
	Listings      []Listing      `gorm:"foreignKey:UserID" json:"listings,omitempty"`
	SavedListings []SavedListing `gorm:"foreignKey:UserID" json:"saved_listings,omitempty"`
	Messages      []Message      `gorm:"foreignKey:SenderID" json:"messages,omitempty"`
}

// UserSummary 列表页展示用的用户摘要（挂在Listing上）
type UserSummary struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Summary 返回用户摘要
func (u *User) Summary() UserSummary {
	return UserSummary{
		Name:  u.Name,
		Image: u.Image,
	}
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 创建前钩子
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}
