// Package policy 社团与平台的权限判定
// 只做判定，不修改任何数据
package policy

import (
	"context"

	"unisocial_server/internal/dao/repository"
	"unisocial_server/internal/model"
	"unisocial_server/pkg/errorx"
)

// IsPlatformAdmin 用户是否为平台管理员
func IsPlatformAdmin(user *model.UserInfo) bool {
	return user.IsPlatformAdmin()
}

// IsClubAdmin 用户在该社团是否持有已通过的管理员身份
// 没有成员关系时返回 false 而不是错误
func IsClubAdmin(ctx context.Context, memberships repository.ClubMembershipRepository, userId, clubId string) (bool, error) {
	m, err := memberships.FindByClubAndUser(ctx, clubId, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return m.IsApprovedAdmin(), nil
}

// AdminSet 事务内锁定的社团管理员集合
type AdminSet []model.ClubMembership

// LockClubAdmins 锁定社团当前全部已通过的管理员
// 同一社团的成员变更在此处串行化，锁持有到事务结束
func LockClubAdmins(ctx context.Context, memberships repository.ClubMembershipRepository, clubId string) (AdminSet, error) {
	admins, err := memberships.LockApprovedAdmins(ctx, clubId)
	if err != nil {
		return nil, err
	}
	return AdminSet(admins), nil
}

// Contains 用户是否在管理员集合中
func (s AdminSet) Contains(userId string) bool {
	for i := range s {
		if s[i].UserUuid == userId {
			return true
		}
	}
	return false
}

// IsLastAdmin 移除该用户的管理员身份后社团是否会没有管理员
func (s AdminSet) IsLastAdmin(userId string) bool {
	return s.Contains(userId) && len(s) <= 1
}
