// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 所有方法的第一个参数为 context，acting 用户由 Handler 从认证信息中取出后显式传入
package service

import (
	"context"

	"unisocial_server/internal/dto/request"
	"unisocial_server/internal/dto/respond"
)

// UserService 用户业务接口
// 处理注册、登录、资料维护和账号删除
type UserService interface {
	// Register 用户注册
	Register(ctx context.Context, req request.RegisterRequest) (*respond.UserInfoRespond, error)
	// Login 邮箱密码登录
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	// GetUserInfo 获取单个用户资料
	GetUserInfo(ctx context.Context, userId string) (*respond.UserInfoRespond, error)
	// UpdateProfile 修改自己的资料
	UpdateProfile(ctx context.Context, actingUserId string, req request.UpdateProfileRequest) (*respond.UserInfoRespond, error)
	// SearchUsers 按姓名或学号搜索
	SearchUsers(ctx context.Context, query string) ([]respond.UserInfoRespond, error)
	// DeleteAccount 注销自己的账号
	DeleteAccount(ctx context.Context, actingUserId string) error
	// ListUsers 用户列表（平台管理员）
	ListUsers(ctx context.Context, actingUserId string) ([]respond.UserInfoRespond, error)
	// DeleteUser 删除用户（平台管理员）
	DeleteUser(ctx context.Context, actingUserId, targetUserId string) error
}

// AuthService 认证业务接口
type AuthService interface {
	// ValidateTokenID 校验 Refresh Token ID 是否为最新
	ValidateTokenID(ctx context.Context, userID, tokenID string) (bool, error)
	// RefreshAccessToken 刷新 Access Token
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// ClubService 社团业务接口
type ClubService interface {
	// CreateClub 创建社团，创建者成为社团管理员
	CreateClub(ctx context.Context, actingUserId string, req request.CreateClubRequest) (*respond.ClubRespond, error)
	// GetClub 社团详情
	GetClub(ctx context.Context, clubId string) (*respond.ClubRespond, error)
	// ListClubs 按认证状态列出社团
	ListClubs(ctx context.Context, verified string) ([]respond.ClubRespond, error)
	// UpdateClub 修改社团资料（社团管理员）
	UpdateClub(ctx context.Context, actingUserId string, req request.UpdateClubRequest) (*respond.ClubRespond, error)
	// DeleteClub 删除社团（平台管理员）
	DeleteClub(ctx context.Context, actingUserId, clubId string) error
	// VerifyClub 认证社团（平台管理员）
	VerifyClub(ctx context.Context, actingUserId, clubId string) (*respond.ClubRespond, error)
	// RejectClub 驳回社团（平台管理员）
	RejectClub(ctx context.Context, actingUserId, clubId string) (*respond.ClubRespond, error)
	// GetMembershipStatus 当前用户在社团中的成员状态
	GetMembershipStatus(ctx context.Context, actingUserId, clubId string) (*respond.MembershipStatusRespond, error)
}

// MembershipService 社团成员关系业务接口
type MembershipService interface {
	// RequestJoin 申请加入社团
	RequestJoin(ctx context.Context, userId, clubId string) (*respond.ClubMembershipRespond, error)
	// Approve 通过申请
	Approve(ctx context.Context, actingUserId, membershipId string) (*respond.ClubMembershipRespond, error)
	// Reject 拒绝申请
	Reject(ctx context.Context, actingUserId, membershipId string) (*respond.ClubMembershipRespond, error)
	// PromoteToAdmin 设为社团管理员
	PromoteToAdmin(ctx context.Context, actingUserId, membershipId string) (*respond.ClubMembershipRespond, error)
	// DemoteAdmin 取消社团管理员
	DemoteAdmin(ctx context.Context, actingUserId, membershipId string) (*respond.ClubMembershipRespond, error)
	// RemoveMember 移除成员
	RemoveMember(ctx context.Context, actingUserId, clubId, targetUserId string) (*respond.ClubMembershipRespond, error)
	// ListPending 待审核申请
	ListPending(ctx context.Context, actingUserId, clubId string) ([]respond.ClubMembershipRespond, error)
	// ListMembers 社团全部成员记录
	ListMembers(ctx context.Context, actingUserId, clubId string) ([]respond.ClubMembershipRespond, error)
	// ListUserClubs 用户已加入的社团
	ListUserClubs(ctx context.Context, userId string) ([]respond.ClubMembershipRespond, error)
	// ListAllUserMemberships 用户的全部成员记录
	ListAllUserMemberships(ctx context.Context, userId string) ([]respond.ClubMembershipRespond, error)
}

// EventService 社团活动业务接口
type EventService interface {
	// CreateEvent 发布活动（社团管理员）
	CreateEvent(ctx context.Context, actingUserId string, req request.CreateEventRequest) (*respond.EventRespond, error)
	// UpdateEvent 修改活动（社团管理员）
	UpdateEvent(ctx context.Context, actingUserId string, req request.UpdateEventRequest) (*respond.EventRespond, error)
	// DeleteEvent 删除活动（社团管理员）
	DeleteEvent(ctx context.Context, actingUserId, eventId string) error
	// GetEvent 活动详情
	GetEvent(ctx context.Context, eventId string) (*respond.EventRespond, error)
	// ListClubEvents 社团的全部活动
	ListClubEvents(ctx context.Context, clubId string) ([]respond.EventRespond, error)
	// ListUpcomingEvents 尚未结束的活动
	ListUpcomingEvents(ctx context.Context) ([]respond.EventRespond, error)
	// ListEventsByMonth 某月开始的活动
	ListEventsByMonth(ctx context.Context, year, month int) ([]respond.EventRespond, error)
}
