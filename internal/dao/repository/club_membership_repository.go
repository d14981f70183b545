// Package repository 提供数据访问层的具体实现
// 本文件实现 ClubMembershipRepository 接口，处理社团成员关系的数据库操作
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"unisocial_server/internal/model"
	"unisocial_server/pkg/enum/club_membership/membership_role_enum"
	"unisocial_server/pkg/enum/club_membership/membership_status_enum"
)

// clubMembershipRepository ClubMembershipRepository 接口的实现
type clubMembershipRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewClubMembershipRepository 创建 ClubMembershipRepository 实例
func NewClubMembershipRepository(db *gorm.DB) ClubMembershipRepository {
	return &clubMembershipRepository{db: db}
}

// FindByUuid 根据成员关系 UUID 查找
func (r *clubMembershipRepository) FindByUuid(ctx context.Context, uuid string) (*model.ClubMembership, error) {
	var m model.ClubMembership
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&m).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询成员关系 uuid=%s", uuid)
	}
	return &m, nil
}

// FindByClubAndUser 根据社团和用户查找成员关系
// 用于检查用户是否已申请或已在社团中
func (r *clubMembershipRepository) FindByClubAndUser(ctx context.Context, clubUuid, userUuid string) (*model.ClubMembership, error) {
	var m model.ClubMembership
	if err := r.db.WithContext(ctx).Where("club_uuid = ? AND user_uuid = ?", clubUuid, userUuid).First(&m).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询成员关系 club_uuid=%s user_uuid=%s", clubUuid, userUuid)
	}
	return &m, nil
}

// FindByClub 查找社团的全部成员关系，包括待审核和已拒绝
func (r *clubMembershipRepository) FindByClub(ctx context.Context, clubUuid string) ([]model.ClubMembership, error) {
	var ms []model.ClubMembership
	if err := r.db.WithContext(ctx).Where("club_uuid = ?", clubUuid).
		Order("joined_at ASC").Find(&ms).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询社团成员 club_uuid=%s", clubUuid)
	}
	return ms, nil
}

// FindByClubAndStatus 查找社团内指定状态的成员关系
func (r *clubMembershipRepository) FindByClubAndStatus(ctx context.Context, clubUuid, status string) ([]model.ClubMembership, error) {
	var ms []model.ClubMembership
	if err := r.db.WithContext(ctx).Where("club_uuid = ? AND status = ?", clubUuid, status).
		Order("joined_at ASC").Find(&ms).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询社团成员 club_uuid=%s status=%s", clubUuid, status)
	}
	return ms, nil
}

// FindByUser 查找用户的全部成员关系
func (r *clubMembershipRepository) FindByUser(ctx context.Context, userUuid string) ([]model.ClubMembership, error) {
	var ms []model.ClubMembership
	if err := r.db.WithContext(ctx).Where("user_uuid = ?", userUuid).
		Order("joined_at ASC").Find(&ms).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户成员关系 user_uuid=%s", userUuid)
	}
	return ms, nil
}

// FindByUserAndStatus 查找用户指定状态的成员关系
func (r *clubMembershipRepository) FindByUserAndStatus(ctx context.Context, userUuid, status string) ([]model.ClubMembership, error) {
	var ms []model.ClubMembership
	if err := r.db.WithContext(ctx).Where("user_uuid = ? AND status = ?", userUuid, status).
		Order("joined_at ASC").Find(&ms).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户成员关系 user_uuid=%s status=%s", userUuid, status)
	}
	return ms, nil
}

// CountApprovedByClubAndRole 统计社团内已通过且为某角色的成员数量
func (r *clubMembershipRepository) CountApprovedByClubAndRole(ctx context.Context, clubUuid, role string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ClubMembership{}).
		Where("club_uuid = ? AND role = ? AND status = ?", clubUuid, role, membership_status_enum.APPROVED).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计社团角色 club_uuid=%s role=%s", clubUuid, role)
	}
	return count, nil
}

// CountByClubAndStatus 统计社团内某状态的成员关系数量
func (r *clubMembershipRepository) CountByClubAndStatus(ctx context.Context, clubUuid, status string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ClubMembership{}).
		Where("club_uuid = ? AND status = ?", clubUuid, status).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计社团成员 club_uuid=%s status=%s", clubUuid, status)
	}
	return count, nil
}

// LockApprovedAdmins 以 FOR UPDATE 锁定社团的已通过管理员记录
// 并发的降级/移除请求会在这里排队，后到者看到的是前者提交后的结果
func (r *clubMembershipRepository) LockApprovedAdmins(ctx context.Context, clubUuid string) ([]model.ClubMembership, error) {
	var ms []model.ClubMembership
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("club_uuid = ? AND role = ? AND status = ?", clubUuid, membership_role_enum.ADMIN, membership_status_enum.APPROVED).
		Order("id").
		Find(&ms).Error; err != nil {
		return nil, wrapDBErrorf(err, "锁定社团管理员 club_uuid=%s", clubUuid)
	}
	return ms, nil
}

// Create 创建成员关系
func (r *clubMembershipRepository) Create(ctx context.Context, membership *model.ClubMembership) error {
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return wrapDBErrorf(err, "创建成员关系 club_uuid=%s user_uuid=%s", membership.ClubUuid, membership.UserUuid)
	}
	return nil
}

// Update 更新角色与状态
func (r *clubMembershipRepository) Update(ctx context.Context, membership *model.ClubMembership) error {
	if err := r.db.WithContext(ctx).Model(&model.ClubMembership{}).Where("uuid = ?", membership.Uuid).
		Updates(map[string]any{
			"role":   membership.Role,
			"status": membership.Status,
		}).Error; err != nil {
		return wrapDBErrorf(err, "更新成员关系 uuid=%s", membership.Uuid)
	}
	return nil
}

// DeleteByUuid 删除单条成员关系
func (r *clubMembershipRepository) DeleteByUuid(ctx context.Context, uuid string) error {
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&model.ClubMembership{}).Error; err != nil {
		return wrapDBErrorf(err, "删除成员关系 uuid=%s", uuid)
	}
	return nil
}

// DeleteByClubUuid 删除社团的全部成员关系
// 用于删除社团时先清理子记录
func (r *clubMembershipRepository) DeleteByClubUuid(ctx context.Context, clubUuid string) error {
	if err := r.db.WithContext(ctx).Where("club_uuid = ?", clubUuid).Delete(&model.ClubMembership{}).Error; err != nil {
		return wrapDBErrorf(err, "删除社团所有成员 club_uuid=%s", clubUuid)
	}
	return nil
}

// DeleteByUserUuid 删除用户的全部成员关系
// 用于注销账号
func (r *clubMembershipRepository) DeleteByUserUuid(ctx context.Context, userUuid string) error {
	if err := r.db.WithContext(ctx).Where("user_uuid = ?", userUuid).Delete(&model.ClubMembership{}).Error; err != nil {
		return wrapDBErrorf(err, "删除用户所有成员关系 user_uuid=%s", userUuid)
	}
	return nil
}
