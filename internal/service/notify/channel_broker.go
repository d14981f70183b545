package notify

import (
	"context"
	"errors"
	"sync"

	"unisocial_server/pkg/constants"
)

// ChannelBroker 单机模式，事件经进程内 channel 转发
type ChannelBroker struct {
	registry

	transmit  chan []byte
	quit      chan struct{}
	closeOnce sync.Once
}

// NewChannelBroker 创建 ChannelBroker
func NewChannelBroker() *ChannelBroker {
	return &ChannelBroker{
		transmit: make(chan []byte, constants.CHANNEL_SIZE),
		quit:     make(chan struct{}),
	}
}

// Publish 非阻塞写入转发通道，通道满时直接返回错误
func (b *ChannelBroker) Publish(ctx context.Context, msg []byte) error {
	select {
	case <-b.quit:
		return ErrBrokerClosed
	default:
	}
	select {
	case b.transmit <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("notify: transmit channel full")
	}
}

// Start 消费转发通道
func (b *ChannelBroker) Start() {
	for {
		select {
		case data := <-b.transmit:
			b.deliver(data)
		case <-b.quit:
			return
		}
	}
}

func (b *ChannelBroker) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.closeAll()
	})
}
