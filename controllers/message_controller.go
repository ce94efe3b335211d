package controllers

import (
	"strings"

	"barterhub_go/services"
	"barterhub_go/utils"

	"github.com/gin-gonic/gin"
)

// MessageController 消息控制器
type MessageController struct {
	messageService *services.MessageService
}

// NewMessageController 创建消息控制器实例
func NewMessageController() *MessageController {
	return &MessageController{
		messageService: services.NewMessageService(),
	}
}

// CreateConversation 创建会话
// @Summary 创建会话
// @Description 围绕某个发布创建与发布者的会话，已存在则复用
// @Tags messages
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body services.CreateConversationRequest true "会话信息"
// @Success 201 {object} utils.Response
// @Router /api/messages/conversations [post]
func (mc *MessageController) CreateConversation(c *gin.Context) {
	userID := c.GetString("user_id")

	var req services.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, err)
		return
	}

	conversation, err := mc.messageService.CreateConversation(userID, req.ListingID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFound(c, err.Error())
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Created(c, conversation)
}

// GetConversations 获取会话列表
// @Summary 获取会话列表
// @Description 获取当前用户的会话列表，带未读计数
// @Tags messages
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Router /api/messages/conversations [get]
func (mc *MessageController) GetConversations(c *gin.Context) {
	userID := c.GetString("user_id")

	conversations, err := mc.messageService.GetConversations(userID)
	if err != nil {
		utils.InternalError(c, "Failed to get conversations")
		return
	}

	utils.Success(c, gin.H{
		"conversations": conversations,
		"unread_total":  mc.messageService.GetUnreadTotal(userID),
	})
}

// GetMessages 获取会话消息
// @Summary 获取会话消息
// @Description 获取会话内的消息，按时间升序
// @Tags messages
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "会话ID"
// @Success 200 {object} utils.Response
// @Router /api/messages/conversations/{id} [get]
func (mc *MessageController) GetMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	conversationID := c.Param("id")

	conversation, err := mc.messageService.GetConversation(conversationID, userID)
	if err != nil {
		utils.NotFound(c, err.Error())
		return
	}

	messages, err := mc.messageService.GetMessages(conversationID, userID)
	if err != nil {
		utils.InternalError(c, "Failed to get messages")
		return
	}

	utils.Success(c, gin.H{
		"conversation": conversation,
		"messages":     messages,
	})
}

// SendMessage 发送消息
// @Summary 发送消息
// @Description 在会话内发送消息，对方稍后会收到自动回复
// @Tags messages
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "会话ID"
// @Param request body services.SendMessageRequest true "消息内容"
// @Success 201 {object} utils.Response
// @Router /api/messages/conversations/{id} [post]
func (mc *MessageController) SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	conversationID := c.Param("id")

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, err)
		return
	}

	message, err := mc.messageService.SendMessage(conversationID, userID, req.Content)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFound(c, err.Error())
			return
		}
		utils.InternalError(c, "Failed to send message")
		return
	}

	utils.Created(c, message)
}

// MarkAsRead 标记会话已读
// @Summary 标记会话已读
// @Description 将会话内的消息标记为已读并清零未读计数
// @Tags messages
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "会话ID"
// @Success 200 {object} utils.Response
// @Router /api/messages/conversations/{id}/read [put]
func (mc *MessageController) MarkAsRead(c *gin.Context) {
	userID := c.GetString("user_id")
	conversationID := c.Param("id")

	if err := mc.messageService.MarkAsRead(conversationID, userID); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "Marked as read", nil)
}
