// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	myredis "unisocial_server/internal/dao/redis"
	"unisocial_server/internal/dao/repository"
	"unisocial_server/internal/service/auth"
	"unisocial_server/internal/service/club"
	"unisocial_server/internal/service/event"
	"unisocial_server/internal/service/membership"
	"unisocial_server/internal/service/notify"
	"unisocial_server/internal/service/user"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过它访问各个 Service
type Services struct {
	User       UserService       // 用户 Service
	Auth       AuthService       // 认证 Service
	Club       ClubService       // 社团 Service
	Membership MembershipService // 社团成员 Service
	Event      EventService      // 社团活动 Service
}

// NewServices 创建并注入所有 Service 实例
// isBootstrapAdmin 决定注册时哪些邮箱直接成为平台管理员
func NewServices(
	repos *repository.Repositories,
	cacheService myredis.AsyncCacheService,
	notifier notify.Notifier,
	isBootstrapAdmin func(email string) bool,
) *Services {
	return &Services{
		User:       user.NewUserService(repos, cacheService, isBootstrapAdmin),
		Auth:       auth.NewAuthService(cacheService),
		Club:       club.NewClubService(repos, cacheService),
		Membership: membership.NewMembershipService(repos, cacheService, notifier),
		Event:      event.NewEventService(repos),
	}
}
