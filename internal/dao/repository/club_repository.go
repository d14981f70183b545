// Package repository 提供数据访问层的具体实现
// 本文件实现 ClubRepository 接口
package repository

import (
	"context"

	"gorm.io/gorm"

	"unisocial_server/internal/model"
)

// clubRepository ClubRepository 接口的实现
type clubRepository struct {
	db *gorm.DB
}

// NewClubRepository 创建 ClubRepository 实例
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

// FindByUuid 根据 UUID 查找社团
func (r *clubRepository) FindByUuid(ctx context.Context, uuid string) (*model.ClubInfo, error) {
	var club model.ClubInfo
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&club).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询社团 uuid=%s", uuid)
	}
	return &club, nil
}

// FindByName 根据名称精确查找社团
func (r *clubRepository) FindByName(ctx context.Context, name string) (*model.ClubInfo, error) {
	var club model.ClubInfo
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&club).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询社团 name=%s", name)
	}
	return &club, nil
}

// FindByUuids 批量根据 UUID 查找社团
func (r *clubRepository) FindByUuids(ctx context.Context, uuids []string) ([]model.ClubInfo, error) {
	var clubs []model.ClubInfo
	if len(uuids) == 0 {
		return clubs, nil
	}
	if err := r.db.WithContext(ctx).Where("uuid IN ?", uuids).Find(&clubs).Error; err != nil {
		return nil, wrapDBError(err, "批量查询社团")
	}
	return clubs, nil
}

// List 按认证状态列出社团
func (r *clubRepository) List(ctx context.Context, filter ClubListFilter) ([]model.ClubInfo, error) {
	var clubs []model.ClubInfo
	query := r.db.WithContext(ctx).Model(&model.ClubInfo{})
	switch filter {
	case ClubFilterVerified:
		query = query.Where("verified = ?", true)
	case ClubFilterPending:
		query = query.Where("verified = ?", false)
	}
	if err := query.Order("created_at DESC").Find(&clubs).Error; err != nil {
		return nil, wrapDBError(err, "查询社团列表")
	}
	return clubs, nil
}

// Create 创建社团
func (r *clubRepository) Create(ctx context.Context, club *model.ClubInfo) error {
	if err := r.db.WithContext(ctx).Create(club).Error; err != nil {
		return wrapDBError(err, "创建社团")
	}
	return nil
}

// Update 更新社团名称、简介与 logo
func (r *clubRepository) Update(ctx context.Context, club *model.ClubInfo) error {
	if err := r.db.WithContext(ctx).Model(&model.ClubInfo{}).Where("uuid = ?", club.Uuid).
		Updates(map[string]any{
			"name":        club.Name,
			"description": club.Description,
			"logo_url":    club.LogoUrl,
		}).Error; err != nil {
		return wrapDBErrorf(err, "更新社团 uuid=%s", club.Uuid)
	}
	return nil
}

// UpdateVerified 设置认证状态，verified 为 nil 时写入 NULL
func (r *clubRepository) UpdateVerified(ctx context.Context, uuid string, verified *bool) error {
	if err := r.db.WithContext(ctx).Model(&model.ClubInfo{}).Where("uuid = ?", uuid).
		Update("verified", verified).Error; err != nil {
		return wrapDBErrorf(err, "更新社团认证状态 uuid=%s", uuid)
	}
	return nil
}

// DeleteByUuid 物理删除社团
// 调用方负责先删除成员关系
func (r *clubRepository) DeleteByUuid(ctx context.Context, uuid string) error {
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&model.ClubInfo{}).Error; err != nil {
		return wrapDBErrorf(err, "删除社团 uuid=%s", uuid)
	}
	return nil
}
