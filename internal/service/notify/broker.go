package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"unisocial_server/internal/config"
)

// ErrBrokerClosed Broker 已关闭
var ErrBrokerClosed = errors.New("notify: broker closed")

// Broker 事件代理接口
// 实现：ChannelBroker（单机）与 KafkaBroker（多实例）
type Broker interface {
	// Publish 发布一条事件
	Publish(ctx context.Context, msg []byte) error
	// RegisterClient 注册在线连接，同一用户的旧连接会被关闭
	RegisterClient(client *Client)
	// UnregisterClient 注销在线连接
	UnregisterClient(client *Client)
	// GetClient 获取用户当前的在线连接
	GetClient(userId string) *Client
	// Start 启动消费循环，阻塞直到 Close
	Start()
	// Close 关闭代理和全部在线连接
	Close()
}

// NewBroker 根据 messageMode 创建 Broker
func NewBroker(conf *config.KafkaConfig) Broker {
	if conf.MessageMode == "kafka" {
		return NewKafkaBroker(conf)
	}
	return NewChannelBroker()
}

// registry 在线连接表，两种 Broker 共用
type registry struct {
	// userId -> *Client
	clients sync.Map
}

func (r *registry) RegisterClient(client *Client) {
	if old, loaded := r.clients.Swap(client.UserId, client); loaded {
		old.(*Client).close()
	}
	zap.L().Info("ws 连接已注册", zap.String("user_id", client.UserId))
}

func (r *registry) UnregisterClient(client *Client) {
	r.clients.CompareAndDelete(client.UserId, client)
	client.close()
}

func (r *registry) GetClient(userId string) *Client {
	if v, ok := r.clients.Load(userId); ok {
		return v.(*Client)
	}
	return nil
}

func (r *registry) closeAll() {
	r.clients.Range(func(key, value any) bool {
		r.clients.Delete(key)
		value.(*Client).close()
		return true
	})
}

// deliver 解出接收人并推送给本实例上在线的连接
func (r *registry) deliver(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		zap.L().Error("解析成员事件失败", zap.Error(err))
		return
	}
	payload, err := json.Marshal(env.Event)
	if err != nil {
		zap.L().Error(err.Error())
		return
	}
	for _, userId := range env.Recipients {
		if client := r.GetClient(userId); client != nil {
			client.enqueue(payload)
		}
	}
}
