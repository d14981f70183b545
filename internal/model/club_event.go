package model

import "time"

// ClubEvent 社团活动
// 只有社团的已通过管理员可以发布、修改、删除
type ClubEvent struct {
	ID                   uint       `gorm:"primaryKey"`
	Uuid                 string     `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:活动唯一id"`
	ClubUuid             string     `gorm:"column:club_uuid;type:char(20);not null;index;comment:社团ID"`
	Title                string     `gorm:"column:title;type:varchar(200);not null;comment:标题"`
	Description          string     `gorm:"column:description;type:text;not null;comment:活动介绍"`
	BannerUrl            string     `gorm:"column:banner_url;type:varchar(255);comment:海报"`
	Location             string     `gorm:"column:location;type:varchar(255);not null;comment:地点"`
	StartTime            time.Time  `gorm:"column:start_time;not null;index;comment:开始时间"`
	EndTime              time.Time  `gorm:"column:end_time;not null;comment:结束时间"`
	RegistrationLink     string     `gorm:"column:registration_link;type:varchar(255);comment:报名链接"`
	RegistrationDeadline *time.Time `gorm:"column:registration_deadline;comment:报名截止时间"`
	OdProvided           bool       `gorm:"column:od_provided;not null;comment:是否提供公假"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at"`
}

func (ClubEvent) TableName() string {
	return "club_event"
}
