package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"barterhub_go/config"
	"barterhub_go/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// 事件类型
const (
	EventListingsChanged = "listings_changed" // 列表数据有更新，客户端应重新拉取
	EventPing            = "ping"
	EventPong            = "pong"
)

var (
	// 升级器 - 将HTTP连接升级为WebSocket连接
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// 生产环境应该验证origin
			return true
		},
	}

	// 客户端连接管理
	clients      = make(map[*Client]bool)
	clientsMutex sync.RWMutex

	// 事件广播队列
	eventQueue = make(chan *Event, 1000)

	// Redis订阅
	redisPubSub *redis.PubSub
	redisCtx    = context.Background()

	// 取消商品仓库订阅
	storeCancel func()
)

// Client WebSocket客户端
type Client struct {
	Connection *websocket.Conn
	Send       chan *Event // 发送队列
	RemoteAddr string
}

// Event 推送给客户端的事件
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// InitWebSocket 初始化WebSocket事件服务
func InitWebSocket(store *services.ListingStore) error {
	// 启动广播worker
	go startBroadcastWorker()

	// 订阅商品仓库的变更通知
	if store != nil {
		ch, cancel := store.Subscribe()
		storeCancel = cancel
		go forwardStoreEvents(ch)
	}

	// 启动Redis PubSub监听（用于多服务器场景）
	if config.RedisClient != nil {
		go subscribeToRedis()
	}

	log.Println("✅ WebSocket event service initialized")
	return nil
}

// HandleConnection 处理WebSocket连接
func HandleConnection(c *gin.Context) {
	// 升级HTTP连接为WebSocket连接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		Connection: conn,
		Send:       make(chan *Event, 64),
		RemoteAddr: c.ClientIP(),
	}

	clientsMutex.Lock()
	clients[client] = true
	clientsMutex.Unlock()

	log.Printf("Client %s connected to listing events", client.RemoteAddr)

	go client.readPump()
	go client.writePump()
}

// readPump 从WebSocket连接读取消息，只响应心跳
func (c *Client) readPump() {
	defer func() {
		removeClient(c)
		c.Connection.Close()
	}()

	c.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Connection.SetPongHandler(func(string) error {
		c.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error for %s: %v", c.RemoteAddr, err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}

		if event.Type == EventPing {
			select {
			case c.Send <- &Event{Type: EventPong, Timestamp: time.Now().Unix()}:
			default:
			}
		}
	}
}

// writePump 向WebSocket连接写入事件
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Connection.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if !ok {
				c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Connection.WriteJSON(event); err != nil {
				log.Printf("WebSocket write error for %s: %v", c.RemoteAddr, err)
				return
			}

		case <-ticker.C:
			// 发送心跳
			c.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// forwardStoreEvents 将商品仓库的变更转发到广播队列
func forwardStoreEvents(ch <-chan struct{}) {
	for range ch {
		event := &Event{
			Type:      EventListingsChanged,
			Timestamp: time.Now().Unix(),
		}

		select {
		case eventQueue <- event:
		default:
			log.Printf("Event queue is full, dropping listings_changed event")
		}

		// 同时发布到Redis（用于多服务器同步）
		if config.RedisClient != nil {
			go func(e *Event) {
				data, _ := json.Marshal(e)
				config.RedisClient.Publish(redisCtx, "listings:events", data)
			}(event)
		}
	}
}

// startBroadcastWorker 启动广播worker
func startBroadcastWorker() {
	for event := range eventQueue {
		clientsMutex.RLock()
		for client := range clients {
			select {
			case client.Send <- event:
			default:
				// 发送队列满了，断开连接
				log.Printf("Client %s send queue is full, closing connection", client.RemoteAddr)
				client.Connection.Close()
			}
		}
		clientsMutex.RUnlock()
	}
}

// subscribeToRedis 订阅Redis频道（多服务器同步）
func subscribeToRedis() {
	pubsub := config.RedisClient.Subscribe(redisCtx, "listings:events")
	redisPubSub = pubsub

	ch := pubsub.Channel()
	for msg := range ch {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			continue
		}

		select {
		case eventQueue <- &event:
		default:
		}
	}
}

// removeClient 从客户端列表移除
func removeClient(c *Client) {
	clientsMutex.Lock()
	delete(clients, c)
	clientsMutex.Unlock()
}

// ClientCount 当前连接数
func ClientCount() int {
	clientsMutex.RLock()
	defer clientsMutex.RUnlock()
	return len(clients)
}

// BroadcastToAll 广播事件给所有连接的客户端
func BroadcastToAll(eventType string, data interface{}) {
	event := &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	select {
	case eventQueue <- event:
	default:
		log.Printf("Event queue is full, dropping %s event", eventType)
	}
}

// CloseWebSocket 关闭WebSocket服务
func CloseWebSocket() {
	if storeCancel != nil {
		storeCancel()
	}
	if redisPubSub != nil {
		redisPubSub.Close()
	}

	clientsMutex.Lock()
	for client := range clients {
		client.Connection.Close()
	}
	clients = make(map[*Client]bool)
	clientsMutex.Unlock()
}
