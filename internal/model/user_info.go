// Package model 定义数据库实体模型
// 本文件定义用户信息模型，包含用户基本资料和认证信息
package model

import (
	"time"

	"golang.org/x/crypto/bcrypt" // 密码哈希库
	"gorm.io/gorm"

	"unisocial_server/pkg/enum/user_info/user_role_enum"
)

// UserInfo 用户信息模型
// 对应数据库 user_info 表，删除为物理删除
type UserInfo struct {
	ID uint `gorm:"primaryKey"`

	// Uuid 用户唯一标识
	// 格式：U + 雪花 ID，如 "U1790000000000000000"
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:用户唯一id"`

	// RegNo 学号，全局唯一
	RegNo string `gorm:"column:reg_no;uniqueIndex;type:varchar(32);not null;comment:学号"`

	// Email 登录邮箱，全局唯一
	Email string `gorm:"column:email;uniqueIndex;type:varchar(100);not null;comment:邮箱"`

	Name string `gorm:"column:name;type:varchar(64);not null;comment:姓名"`

	// Password 密码（已哈希）
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// Role 平台角色 USER / ADMIN
	Role string `gorm:"column:role;type:varchar(16);not null;comment:平台角色"`

	Bio   string `gorm:"column:bio;type:varchar(500);comment:个人简介"`
	DpUrl string `gorm:"column:dp_url;type:varchar(255);comment:头像"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	// RawPassword 明文密码（不存入数据库）
	// 用于接收前端传来的明文密码，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// IsPlatformAdmin 是否为平台管理员
func (u *UserInfo) IsPlatformAdmin() bool {
	return u != nil && u.Role == user_role_enum.ADMIN
}

// HashPassword 将 RawPassword 明文密码加密后存入 Password 字段
// 没有明文密码时不做任何事
func (u *UserInfo) HashPassword() error {
	if u.RawPassword == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash) // 存储加密后的密码
	u.RawPassword = ""        // 清空明文，防止泄露
	return nil
}

// BeforeSave GORM Hook：在创建和更新前自动调用
// 调用方只需设置 RawPassword，无需手动加密
func (u *UserInfo) BeforeSave(tx *gorm.DB) error {
	return u.HashPassword()
}

// CheckPassword 校验密码是否正确
func (u *UserInfo) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext))
	return err == nil // 无错误表示密码正确
}
