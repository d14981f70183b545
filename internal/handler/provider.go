// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
// 遵循依赖倒置原则，通过构造函数注入 Service 依赖
package handler

import (
	"unisocial_server/internal/service"
	"unisocial_server/internal/service/notify"
)

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	User       *UserHandler
	Auth       *AuthHandler
	Club       *ClubHandler
	Membership *MembershipHandler
	Event      *EventHandler
	Admin      *AdminHandler
	Ws         *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services, broker notify.Broker) *Handlers {
	return &Handlers{
		User:       NewUserHandler(svc.User, svc.Membership),
		Auth:       NewAuthHandler(svc.Auth),
		Club:       NewClubHandler(svc.Club, svc.Membership),
		Membership: NewMembershipHandler(svc.Membership),
		Event:      NewEventHandler(svc.Event),
		Admin:      NewAdminHandler(svc.User, svc.Club),
		Ws:         NewWsHandler(broker),
	}
}
