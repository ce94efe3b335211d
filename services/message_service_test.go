package services

import (
	"path/filepath"
	"testing"
	"time"

	"barterhub_go/config"
	"barterhub_go/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 用临时sqlite库替换全局DB
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.SavedListing{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
	))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })
}

// newTestMessageService 自动回复关闭，避免测试里出现定时写入
func newTestMessageService() *MessageService {
	return &MessageService{autoReplyDelay: time.Millisecond, autoReply: false}
}

func seedConversationUsers(t *testing.T) (buyer, seller models.User, listing models.Listing) {
	t.Helper()

	buyer = models.User{Name: "Alice", Email: "alice@example.com", Password: "x", Status: 1}
	seller = models.User{Name: "Bob", Email: "bob@example.com", Password: "x", Status: 1}
	require.NoError(t, config.DB.Create(&buyer).Error)
	require.NoError(t, config.DB.Create(&seller).Error)

	listing = models.Listing{
		Title:          "Mountain Bike",
		Description:    "barely ridden",
		Category:       "Sports",
		Condition:      "Good",
		ExchangeMethod: "In-person",
		LookingFor:     "camping gear",
		UserID:         seller.ID,
	}
	require.NoError(t, config.DB.Create(&listing).Error)
	return buyer, seller, listing
}

func TestCreateConversation(t *testing.T) {
	setupTestDB(t)
	ms := newTestMessageService()
	buyer, seller, listing := seedConversationUsers(t)

	conv, err := ms.CreateConversation(buyer.ID, listing.ID)
	require.NoError(t, err)
	require.Len(t, conv.Participants, 2)

	// 重复创建复用同一会话
	again, err := ms.CreateConversation(buyer.ID, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)

	// 不能和自己的发布开会话
	_, err = ms.CreateConversation(seller.ID, listing.ID)
	assert.Error(t, err)

	_, err = ms.CreateConversation(buyer.ID, "missing")
	assert.Error(t, err)
}

func TestGetConversationsUnreadCount(t *testing.T) {
	setupTestDB(t)
	ms := newTestMessageService()
	buyer, seller, listing := seedConversationUsers(t)

	conv, err := ms.CreateConversation(buyer.ID, listing.ID)
	require.NoError(t, err)

	_, err = ms.SendMessage(conv.ID, buyer.ID, "Is this still available?")
	require.NoError(t, err)
	_, err = ms.SendMessage(conv.ID, buyer.ID, "I could trade a tent for it.")
	require.NoError(t, err)

	// 收到两条消息的一方未读数为2
	sellerConvs, err := ms.GetConversations(seller.ID)
	require.NoError(t, err)
	require.Len(t, sellerConvs, 1)
	assert.Equal(t, int64(2), sellerConvs[0].UnreadCount)
	assert.Equal(t, "I could trade a tent for it.", sellerConvs[0].LastMessage)

	// 发送方自己的未读数不变
	buyerConvs, err := ms.GetConversations(buyer.ID)
	require.NoError(t, err)
	require.Len(t, buyerConvs, 1)
	assert.Equal(t, int64(0), buyerConvs[0].UnreadCount)

	// 已读后清零
	require.NoError(t, ms.MarkAsRead(conv.ID, seller.ID))
	sellerConvs, err = ms.GetConversations(seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sellerConvs[0].UnreadCount)
}

func TestSendMessageRequiresParticipant(t *testing.T) {
	setupTestDB(t)
	ms := newTestMessageService()
	buyer, _, listing := seedConversationUsers(t)

	conv, err := ms.CreateConversation(buyer.ID, listing.ID)
	require.NoError(t, err)

	stranger := models.User{Name: "Mallory", Email: "mallory@example.com", Password: "x", Status: 1}
	require.NoError(t, config.DB.Create(&stranger).Error)

	_, err = ms.SendMessage(conv.ID, stranger.ID, "let me in")
	assert.Error(t, err)

	_, err = ms.GetMessages(conv.ID, stranger.ID)
	assert.Error(t, err)
}

func TestGetUnreadTotal(t *testing.T) {
	setupTestDB(t)
	ms := newTestMessageService()
	buyer, seller, listing := seedConversationUsers(t)

	conv, err := ms.CreateConversation(buyer.ID, listing.ID)
	require.NoError(t, err)

	_, err = ms.SendMessage(conv.ID, buyer.ID, "hello")
	require.NoError(t, err)

	assert.Equal(t, int64(1), ms.GetUnreadTotal(seller.ID))
	assert.Equal(t, int64(0), ms.GetUnreadTotal(buyer.ID))
}

func TestAutoReplyDelayFromEnv(t *testing.T) {
	t.Setenv("CHAT_AUTO_REPLY_DELAY", "250ms")
	ms := NewMessageService()
	assert.Equal(t, 250*time.Millisecond, ms.autoReplyDelay)
}
