package model

import "time"

// ClubInfo 社团信息
// Verified 三态：true 已认证，false 待审核，nil 已被平台驳回
type ClubInfo struct {
	ID            uint      `gorm:"primaryKey"`
	Uuid          string    `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:社团唯一id"`
	Name          string    `gorm:"column:name;uniqueIndex;type:varchar(100);not null;comment:社团名称"`
	Description   string    `gorm:"column:description;type:varchar(1000);comment:社团简介"`
	LogoUrl       string    `gorm:"column:logo_url;type:varchar(255);comment:社团logo"`
	Verified      *bool     `gorm:"column:verified;comment:认证状态，true.已认证，false.待审核，null.已驳回"`
	CreatedByUuid string    `gorm:"column:created_by_uuid;type:char(20);index;not null;comment:创建者uuid"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (ClubInfo) TableName() string {
	return "club_info"
}
