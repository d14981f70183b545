package repository

import (
	"context"

	"gorm.io/gorm"
)

// gormTx 基于 gorm 的事务执行器
type gormTx struct {
	db *gorm.DB
}

// Transaction 使用事务 db 创建新的 Repositories 实例交给 fn
func (t *gormTx) Transaction(ctx context.Context, fn func(txRepos *Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// NewRepositories 创建所有 gorm Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Club:       NewClubRepository(db),
		Membership: NewClubMembershipRepository(db),
		Event:      NewClubEventRepository(db),
		tx:         &gormTx{db: db},
	}
}
