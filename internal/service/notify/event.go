// Package notify 社团成员关系事件的实时推送
// 业务层在事务提交后调用 Notifier，事件经 Broker（channel 或 kafka）投递到在线用户的 WebSocket 连接
package notify

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"unisocial_server/pkg/constants"
)

// 事件类型
const (
	EventRequested = "membership.requested" // 有人申请加入，推送给社团管理员
	EventApproved  = "membership.approved"
	EventRejected  = "membership.rejected"
	EventPromoted  = "membership.promoted"
	EventDemoted   = "membership.demoted"
	EventRemoved   = "membership.removed"
)

// Event 推送给客户端的事件内容
type Event struct {
	Type         string `json:"type"`
	ClubId       string `json:"club_id"`
	ClubName     string `json:"club_name"`
	MembershipId string `json:"membership_id"`
	UserId       string `json:"user_id"`  // 成员关系所属用户
	ActorId      string `json:"actor_id"` // 触发事件的用户
	Role         string `json:"role"`
	Status       string `json:"status"`
	OccurredAt   string `json:"occurred_at"`
}

// envelope Broker 内部传输格式，recipients 不下发给客户端
type envelope struct {
	Recipients []string `json:"recipients"`
	Event      Event    `json:"event"`
}

// Notifier 业务层依赖的推送接口
// 推送是尽力而为的，失败只记录日志，不影响业务结果
type Notifier interface {
	Notify(ctx context.Context, event Event, recipients ...string)
}

// Dispatcher 基于 Broker 的 Notifier 实现
type Dispatcher struct {
	broker Broker
}

// NewDispatcher 创建 Dispatcher
func NewDispatcher(broker Broker) *Dispatcher {
	return &Dispatcher{broker: broker}
}

// Notify 序列化事件并发布到 Broker
func (d *Dispatcher) Notify(ctx context.Context, event Event, recipients ...string) {
	if len(recipients) == 0 {
		return
	}
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().Format(constants.TIME_LAYOUT)
	}
	data, err := json.Marshal(envelope{Recipients: recipients, Event: event})
	if err != nil {
		zap.L().Error("序列化成员事件失败", zap.Error(err))
		return
	}
	if err := d.broker.Publish(ctx, data); err != nil {
		zap.L().Warn("发布成员事件失败",
			zap.String("type", event.Type),
			zap.String("club_id", event.ClubId),
			zap.Error(err))
	}
}

// NopNotifier 不推送任何事件
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event, ...string) {}
