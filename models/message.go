package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation 会话模型（围绕某个发布的两人会话）
type Conversation struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	ListingID   string         `gorm:"type:varchar(36);index" json:"listing_id,omitempty"`
	LastMessage string         `gorm:"type:text" json:"last_message,omitempty"`
	CreatedAt   time.Time      `gorm:"comment:创建时间" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联关系
	Listing      *Listing                  `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
	Messages     []Message                 `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// ConversationParticipant 会话参与者关联模型
type ConversationParticipant struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ConversationID string    `gorm:"type:varchar(36);index;not null" json:"conversation_id"`
	UserID         string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	UnreadCount    int       `gorm:"default:0" json:"unread_count"`
	CreatedAt      time.Time `json:"created_at"`

	// 关联关系
	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Message 消息模型
type Message struct {
	ID             string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	ConversationID string         `gorm:"type:varchar(36);index;not null" json:"conversation_id"`
	SenderID       string         `gorm:"type:varchar(36);index;not null" json:"sender_id"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	IsRead         bool           `gorm:"default:false" json:"is_read"`
	IsAutoReply    bool           `gorm:"default:false;comment:是否为系统自动回复" json:"is_auto_reply"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联关系
	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
	Sender       User         `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// ConversationResponse 会话响应结构（包含未读数）
type ConversationResponse struct {
	ID           string                    `json:"id"`
	ListingID    string                    `json:"listing_id,omitempty"`
	LastMessage  string                    `json:"last_message,omitempty"`
	UpdatedAt    time.Time                 `json:"updated_at"`
	UnreadCount  int64                     `json:"unread_count"`
	Participants []ConversationParticipant `json:"participants,omitempty"`
	Messages     []Message                 `json:"messages,omitempty"`
}

// ToConversationResponse 将Conversation转换为ConversationResponse
func (c *Conversation) ToConversationResponse(unreadCount int64) ConversationResponse {
	return ConversationResponse{
		ID:           c.ID,
		ListingID:    c.ListingID,
		LastMessage:  c.LastMessage,
		UpdatedAt:    c.UpdatedAt,
		UnreadCount:  unreadCount,
		Participants: c.Participants,
		Messages:     c.Messages,
	}
}

// TableName 指定表名
func (Conversation) TableName() string {
	return "conversations"
}

func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}

func (Message) TableName() string {
	return "messages"
}

// BeforeCreate 创建前钩子
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}

func (cp *ConversationParticipant) BeforeCreate(tx *gorm.DB) error {
	if cp.ID == "" {
		cp.ID = generateUUID()
	}
	return nil
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = generateUUID()
	}
	return nil
}

// AfterCreate 更新会话的最后消息和时间
func (m *Message) AfterCreate(tx *gorm.DB) error {
	return tx.Model(&Conversation{}).Where("id = ?", m.ConversationID).Updates(map[string]interface{}{
		"last_message": m.Content,
		"updated_at":   time.Now(),
	}).Error
}
