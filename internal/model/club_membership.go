package model

import (
	"time"

	"unisocial_server/pkg/enum/club_membership/membership_role_enum"
	"unisocial_server/pkg/enum/club_membership/membership_status_enum"
)

// ClubMembership 社团成员关系
// (club_uuid, user_uuid) 唯一，一个用户在一个社团最多一条记录
type ClubMembership struct {
	ID        uint      `gorm:"primaryKey"`
	Uuid      string    `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:成员关系唯一id"`
	ClubUuid  string    `gorm:"column:club_uuid;type:char(20);not null;uniqueIndex:idx_club_user,priority:1;comment:社团ID"`
	UserUuid  string    `gorm:"column:user_uuid;type:char(20);not null;uniqueIndex:idx_club_user,priority:2;index;comment:用户ID"`
	Role      string    `gorm:"column:role;type:varchar(16);not null;comment:MEMBER/ADMIN"`
	Status    string    `gorm:"column:status;type:varchar(16);not null;index;comment:PENDING/APPROVED/REJECTED"`
	JoinedAt  time.Time `gorm:"column:joined_at;comment:申请时间"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ClubMembership) TableName() string {
	return "club_membership"
}

// IsApprovedAdmin 是否为已通过审核的社团管理员
func (m *ClubMembership) IsApprovedAdmin() bool {
	return m != nil && m.Role == membership_role_enum.ADMIN && m.Status == membership_status_enum.APPROVED
}

// Migrations AutoMigrate 使用的全部模型
var Migrations = []any{
	&UserInfo{},
	&ClubInfo{},
	&ClubMembership{},
	&ClubEvent{},
}
