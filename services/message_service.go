package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"barterhub_go/config"
	"barterhub_go/models"

	"gorm.io/gorm"
)

// cannedResponses 自动回复文案池。
// 会话目前是演示性质的：对方不在线时由系统延迟回一条占位消息。
var cannedResponses = []string{
	"That sounds good to me!",
	"I'm interested in trading. When would you be available to meet?",
	"Could you tell me more about the condition?",
	"Would you consider a partial trade plus some cash?",
	"I have a few questions about what you're offering.",
	"Thanks for the message. Let me think about it and get back to you.",
	"Is the item still available?",
	"I'm available this weekend if you want to meet up for the exchange.",
	"Do you have any more photos you could share?",
	"I appreciate your offer, but I'm looking for something slightly different.",
}

// MessageService 消息服务
type MessageService struct {
	autoReplyDelay time.Duration
	autoReply      bool
}

// NewMessageService 创建消息服务实例
func NewMessageService() *MessageService {
	return &MessageService{
		autoReplyDelay: config.GetEnvDuration("CHAT_AUTO_REPLY_DELAY", time.Second),
		autoReply:      config.GetEnvBool("CHAT_AUTO_REPLY", true),
	}
}

// CreateConversationRequest 创建会话请求
type CreateConversationRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// CreateConversation 围绕某个发布创建与发布者的会话；已存在则复用
func (ms *MessageService) CreateConversation(userID, listingID string) (*models.Conversation, error) {
	var listing models.Listing
	if err := config.DB.First(&listing, "id = ?", listingID).Error; err != nil {
		return nil, errors.New("listing not found")
	}

	if listing.UserID == userID {
		return nil, errors.New("cannot start a conversation about your own listing")
	}

	// 查找两人已有的会话
	var existing models.Conversation
	err := config.DB.
		Joins("JOIN conversation_participants cp1 ON cp1.conversation_id = conversations.id AND cp1.user_id = ?", userID).
		Joins("JOIN conversation_participants cp2 ON cp2.conversation_id = conversations.id AND cp2.user_id = ?", listing.UserID).
		Where("conversations.listing_id = ?", listingID).
		First(&existing).Error
	if err == nil {
		return ms.GetConversation(existing.ID, userID)
	}

	conversation := models.Conversation{ListingID: listingID}
	if err := config.DB.Create(&conversation).Error; err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	participants := []models.ConversationParticipant{
		{ConversationID: conversation.ID, UserID: userID},
		{ConversationID: conversation.ID, UserID: listing.UserID},
	}
	if err := config.DB.Create(&participants).Error; err != nil {
		return nil, fmt.Errorf("failed to add participants: %w", err)
	}

	return ms.GetConversation(conversation.ID, userID)
}

// GetConversations 获取用户的会话列表（按最近更新排序）
func (ms *MessageService) GetConversations(userID string) ([]models.ConversationResponse, error) {
	var conversations []models.Conversation
	if err := config.DB.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Preload("Listing").
		Preload("Participants.User").
		Order("conversations.updated_at DESC").
		Find(&conversations).Error; err != nil {
		return nil, fmt.Errorf("failed to get conversations: %w", err)
	}

	responses := make([]models.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		unread := ms.unreadCount(conversations[i].ID, userID)
		responses = append(responses, conversations[i].ToConversationResponse(unread))
	}
	return responses, nil
}

// GetConversation 获取单个会话（校验参与者身份）
func (ms *MessageService) GetConversation(conversationID, userID string) (*models.Conversation, error) {
	if !ms.isParticipant(conversationID, userID) {
		return nil, errors.New("conversation not found")
	}

	var conversation models.Conversation
	if err := config.DB.
		Preload("Listing").
		Preload("Participants.User").
		First(&conversation, "id = ?", conversationID).Error; err != nil {
		return nil, errors.New("conversation not found")
	}
	return &conversation, nil
}

// GetMessages 获取会话消息（时间正序）
func (ms *MessageService) GetMessages(conversationID, userID string) ([]models.Message, error) {
	if !ms.isParticipant(conversationID, userID) {
		return nil, errors.New("conversation not found")
	}

	var messages []models.Message
	if err := config.DB.
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}

// SendMessage 发送消息，并调度一条延迟的自动回复
func (ms *MessageService) SendMessage(conversationID, senderID, content string) (*models.Message, error) {
	if !ms.isParticipant(conversationID, senderID) {
		return nil, errors.New("conversation not found")
	}

	message := models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := config.DB.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	// 对方未读数+1
	config.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id != ?", conversationID, senderID).
		Update("unread_count", gorm.Expr("unread_count + 1"))

	if ms.autoReply {
		ms.scheduleAutoReply(conversationID, senderID)
	}

	return &message, nil
}

// MarkAsRead 把会话标记为已读
func (ms *MessageService) MarkAsRead(conversationID, userID string) error {
	if !ms.isParticipant(conversationID, userID) {
		return errors.New("conversation not found")
	}

	if err := config.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversationID, userID, false).
		Update("is_read", true).Error; err != nil {
		return fmt.Errorf("failed to mark messages as read: %w", err)
	}

	return config.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("unread_count", 0).Error
}

// GetUnreadTotal 用户所有会话的未读总数
func (ms *MessageService) GetUnreadTotal(userID string) int64 {
	var total int64
	config.DB.Model(&models.ConversationParticipant{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(unread_count), 0)").
		Scan(&total)
	return total
}

// scheduleAutoReply 延迟发送一条来自对方的占位回复
func (ms *MessageService) scheduleAutoReply(conversationID, senderID string) {
	var other models.ConversationParticipant
	if err := config.DB.
		Where("conversation_id = ? AND user_id != ?", conversationID, senderID).
		First(&other).Error; err != nil {
		return
	}

	time.AfterFunc(ms.autoReplyDelay, func() {
		reply := models.Message{
			ConversationID: conversationID,
			SenderID:       other.UserID,
			Content:        cannedResponses[rand.Intn(len(cannedResponses))],
			IsAutoReply:    true,
		}
		config.DB.Create(&reply)

		config.DB.Model(&models.ConversationParticipant{}).
			Where("conversation_id = ? AND user_id = ?", conversationID, senderID).
			Update("unread_count", gorm.Expr("unread_count + 1"))
	})
}

// unreadCount 某个参与者在该会话中的未读数
func (ms *MessageService) unreadCount(conversationID, userID string) int64 {
	var participant models.ConversationParticipant
	if err := config.DB.
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&participant).Error; err != nil {
		return 0
	}
	return int64(participant.UnreadCount)
}

// isParticipant 检查用户是否是会话参与者
func (ms *MessageService) isParticipant(conversationID, userID string) bool {
	var count int64
	config.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count)
	return count > 0
}
