package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"unisocial_server/internal/config"
)

// KafkaBroker 多实例模式
// 每个实例都从主题读取全部事件，只推送给连在自己身上的用户，因此 Reader 不加入消费者组
type KafkaBroker struct {
	registry

	writer *kafka.Writer
	reader *kafka.Reader

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// fixedPartition 所有事件写入同一个分区，与 Reader 读取的分区一致
type fixedPartition int

func (p fixedPartition) Balance(_ kafka.Message, partitions ...int) int {
	for _, id := range partitions {
		if id == int(p) {
			return id
		}
	}
	return partitions[0]
}

// NewKafkaBroker 创建 KafkaBroker
func NewKafkaBroker(conf *config.KafkaConfig) *KafkaBroker {
	ctx, cancel := context.WithCancel(context.Background())
	timeout := conf.Timeout * time.Second
	return &KafkaBroker{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(conf.HostPort),
			Topic:                  conf.NotifyTopic,
			Balancer:               fixedPartition(conf.Partition),
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			// 异步写入，请求处理不等待 broker 确认
			Async:      true,
			Completion: logWriteFailure,
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:   []string{conf.HostPort},
			Topic:     conf.NotifyTopic,
			Partition: conf.Partition,
			MaxWait:   timeout,
		}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Publish 投递到 Writer 的发送队列后立即返回，发送失败在 Completion 中记录
func (b *KafkaBroker) Publish(ctx context.Context, msg []byte) error {
	if b.ctx.Err() != nil {
		return ErrBrokerClosed
	}
	return b.writer.WriteMessages(ctx, kafka.Message{Value: msg})
}

func logWriteFailure(messages []kafka.Message, err error) {
	if err != nil {
		zap.L().Error("kafka 事件发送失败", zap.Int("count", len(messages)), zap.Error(err))
	}
}

// Start 从最新位置开始消费，历史事件不补发
func (b *KafkaBroker) Start() {
	if err := b.reader.SetOffset(kafka.LastOffset); err != nil {
		zap.L().Error("设置 kafka 读取位置失败", zap.Error(err))
	}
	for {
		m, err := b.reader.ReadMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			zap.L().Error("读取 kafka 消息失败", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		b.deliver(m.Value)
	}
}

func (b *KafkaBroker) Close() {
	b.closeOnce.Do(func() {
		b.cancel()
		if err := b.writer.Close(); err != nil {
			zap.L().Error(err.Error())
		}
		if err := b.reader.Close(); err != nil {
			zap.L().Error(err.Error())
		}
		b.closeAll()
	})
}
