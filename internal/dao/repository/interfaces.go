// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，gorm 实现在各自的文件中
package repository

import (
	"context"
	"time"

	"unisocial_server/internal/model"
)

// ClubListFilter 社团列表的认证状态过滤条件
type ClubListFilter int

const (
	ClubFilterVerified ClubListFilter = iota // 仅已认证（默认）
	ClubFilterPending                        // 仅待审核
	ClubFilterAll                            // 全部，包括已驳回
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(ctx context.Context, uuid string) (*model.UserInfo, error)
	// FindByEmail 根据邮箱查找用户，供登录与身份解析使用
	FindByEmail(ctx context.Context, email string) (*model.UserInfo, error)
	// FindByRegNo 根据学号查找用户
	FindByRegNo(ctx context.Context, regNo string) (*model.UserInfo, error)
	// FindByUuids 批量根据 UUID 查找用户
	FindByUuids(ctx context.Context, uuids []string) ([]model.UserInfo, error)
	// FindAll 查找所有用户
	FindAll(ctx context.Context) ([]model.UserInfo, error)
	// Search 按姓名或学号模糊搜索（忽略大小写）
	Search(ctx context.Context, keyword string, limit int) ([]model.UserInfo, error)
	// Create 创建新用户
	Create(ctx context.Context, user *model.UserInfo) error
	// Update 更新用户资料
	Update(ctx context.Context, user *model.UserInfo) error
	// DeleteByUuid 物理删除用户
	DeleteByUuid(ctx context.Context, uuid string) error
}

// ClubRepository 社团数据访问接口
type ClubRepository interface {
	// FindByUuid 根据 UUID 查找社团
	FindByUuid(ctx context.Context, uuid string) (*model.ClubInfo, error)
	// FindByName 根据名称精确查找社团（区分大小写）
	FindByName(ctx context.Context, name string) (*model.ClubInfo, error)
	// FindByUuids 批量根据 UUID 查找社团
	FindByUuids(ctx context.Context, uuids []string) ([]model.ClubInfo, error)
	// List 按认证状态列出社团，按创建时间倒序
	List(ctx context.Context, filter ClubListFilter) ([]model.ClubInfo, error)
	// Create 创建社团
	Create(ctx context.Context, club *model.ClubInfo) error
	// Update 更新社团资料
	Update(ctx context.Context, club *model.ClubInfo) error
	// UpdateVerified 设置认证状态，nil 表示驳回
	UpdateVerified(ctx context.Context, uuid string, verified *bool) error
	// DeleteByUuid 物理删除社团
	DeleteByUuid(ctx context.Context, uuid string) error
}

// ClubMembershipRepository 社团成员关系数据访问接口
type ClubMembershipRepository interface {
	// FindByUuid 根据成员关系 UUID 查找
	FindByUuid(ctx context.Context, uuid string) (*model.ClubMembership, error)
	// FindByClubAndUser 根据 (社团, 用户) 查找唯一成员关系
	FindByClubAndUser(ctx context.Context, clubUuid, userUuid string) (*model.ClubMembership, error)
	// FindByClub 查找社团的全部成员关系（不区分状态），按申请时间升序
	FindByClub(ctx context.Context, clubUuid string) ([]model.ClubMembership, error)
	// FindByClubAndStatus 查找社团内指定状态的成员关系，按申请时间升序
	FindByClubAndStatus(ctx context.Context, clubUuid, status string) ([]model.ClubMembership, error)
	// FindByUser 查找用户的全部成员关系
	FindByUser(ctx context.Context, userUuid string) ([]model.ClubMembership, error)
	// FindByUserAndStatus 查找用户指定状态的成员关系
	FindByUserAndStatus(ctx context.Context, userUuid, status string) ([]model.ClubMembership, error)
	// CountApprovedByClubAndRole 统计社团内已通过且为某角色的成员数量
	CountApprovedByClubAndRole(ctx context.Context, clubUuid, role string) (int64, error)
	// CountByClubAndStatus 统计社团内某状态的成员关系数量
	CountByClubAndStatus(ctx context.Context, clubUuid, status string) (int64, error)
	// LockApprovedAdmins 锁定并返回社团当前所有已通过的管理员记录（SELECT ... FOR UPDATE）
	// 必须在事务内调用，锁持有到事务结束
	LockApprovedAdmins(ctx context.Context, clubUuid string) ([]model.ClubMembership, error)
	// Create 创建成员关系，(社团, 用户) 重复时返回 CodeConflict
	Create(ctx context.Context, membership *model.ClubMembership) error
	// Update 更新角色与状态
	Update(ctx context.Context, membership *model.ClubMembership) error
	// DeleteByUuid 删除单条成员关系
	DeleteByUuid(ctx context.Context, uuid string) error
	// DeleteByClubUuid 删除社团的全部成员关系
	DeleteByClubUuid(ctx context.Context, clubUuid string) error
	// DeleteByUserUuid 删除用户的全部成员关系
	DeleteByUserUuid(ctx context.Context, userUuid string) error
}

// ClubEventRepository 社团活动数据访问接口
type ClubEventRepository interface {
	// FindByUuid 根据 UUID 查找活动
	FindByUuid(ctx context.Context, uuid string) (*model.ClubEvent, error)
	// FindByClub 社团的全部活动，按开始时间升序
	FindByClub(ctx context.Context, clubUuid string) ([]model.ClubEvent, error)
	// FindEndingAfter 结束时间不早于 t 的活动，按开始时间升序
	FindEndingAfter(ctx context.Context, t time.Time) ([]model.ClubEvent, error)
	// FindStartingBetween 开始时间在 [from, to) 内的活动，按开始时间升序
	FindStartingBetween(ctx context.Context, from, to time.Time) ([]model.ClubEvent, error)
	// Create 创建活动
	Create(ctx context.Context, event *model.ClubEvent) error
	// Update 更新活动内容
	Update(ctx context.Context, event *model.ClubEvent) error
	// DeleteByUuid 删除单个活动
	DeleteByUuid(ctx context.Context, uuid string) error
	// DeleteByClubUuid 删除社团的全部活动
	DeleteByClubUuid(ctx context.Context, clubUuid string) error
}

// ==================== Repository 聚合 ====================

// TxRunner 事务执行器
// fn 收到的 Repositories 绑定在同一个事务上，fn 返回错误即回滚
type TxRunner interface {
	Transaction(ctx context.Context, fn func(txRepos *Repositories) error) error
}

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	User       UserRepository           // 用户 Repository
	Club       ClubRepository           // 社团 Repository
	Membership ClubMembershipRepository // 社团成员 Repository
	Event      ClubEventRepository      // 社团活动 Repository

	tx TxRunner
}

// Transaction 在事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
func (r *Repositories) Transaction(ctx context.Context, fn func(txRepos *Repositories) error) error {
	return r.tx.Transaction(ctx, fn)
}
