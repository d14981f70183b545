package notify

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"unisocial_server/pkg/constants"
)

// Client 一个用户的 WebSocket 连接
// 连接只用于下行推送，客户端发来的消息被丢弃
type Client struct {
	Conn   *websocket.Conn
	UserId string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 2048,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func newClient(conn *websocket.Conn, userId string) *Client {
	return &Client{
		Conn:   conn,
		UserId: userId,
		send:   make(chan []byte, constants.CHANNEL_SIZE),
		done:   make(chan struct{}),
	}
}

// Serve 升级 HTTP 连接并注册到 Broker
func Serve(broker Broker, w http.ResponseWriter, r *http.Request, userId string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := newClient(conn, userId)
	broker.RegisterClient(client)
	go client.writeLoop()
	go client.readLoop(broker)
	return nil
}

// enqueue 放入发送队列，队列满时丢弃
func (c *Client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		zap.L().Warn("ws 发送队列已满，丢弃事件", zap.String("user_id", c.UserId))
		return false
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case msg := <-c.send:
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zap.L().Info("ws 写入失败", zap.String("user_id", c.UserId), zap.Error(err))
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop 只为感知断开
func (c *Client) readLoop(broker Broker) {
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			broker.UnregisterClient(c)
			return
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if err := c.Conn.Close(); err != nil {
			zap.L().Debug(err.Error())
		}
	})
}
