// Package repository 提供数据访问层的具体实现
// 本文件实现 UserRepository 接口，处理用户相关的数据库操作
package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"unisocial_server/internal/model"
)

// userRepository UserRepository 接口的实现
type userRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 根据 UUID 查找用户
func (r *userRepository) FindByUuid(ctx context.Context, uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 email=%s", email)
	}
	return &user, nil
}

// FindByRegNo 根据学号查找用户
func (r *userRepository) FindByRegNo(ctx context.Context, regNo string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).Where("reg_no = ?", regNo).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 reg_no=%s", regNo)
	}
	return &user, nil
}

// FindByUuids 批量根据 UUID 查找用户
func (r *userRepository) FindByUuids(ctx context.Context, uuids []string) ([]model.UserInfo, error) {
	var users []model.UserInfo
	if len(uuids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// FindAll 查找所有用户，按注册时间倒序
func (r *userRepository) FindAll(ctx context.Context) ([]model.UserInfo, error) {
	var users []model.UserInfo
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "查询所有用户")
	}
	return users, nil
}

// Search 按姓名或学号模糊搜索
// LOWER 两侧统一小写，兼容 MySQL 与 PostgreSQL 的排序规则差异
func (r *userRepository) Search(ctx context.Context, keyword string, limit int) ([]model.UserInfo, error) {
	var users []model.UserInfo
	like := "%" + strings.ToLower(keyword) + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(reg_no) LIKE ?", like, like).
		Order("name").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, wrapDBErrorf(err, "搜索用户 keyword=%s", keyword)
	}
	return users, nil
}

// Create 创建新用户
func (r *userRepository) Create(ctx context.Context, user *model.UserInfo) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// Update 更新用户资料
func (r *userRepository) Update(ctx context.Context, user *model.UserInfo) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return wrapDBErrorf(err, "更新用户 uuid=%s", user.Uuid)
	}
	return nil
}

// DeleteByUuid 物理删除用户
func (r *userRepository) DeleteByUuid(ctx context.Context, uuid string) error {
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&model.UserInfo{}).Error; err != nil {
		return wrapDBErrorf(err, "删除用户 uuid=%s", uuid)
	}
	return nil
}
