// Package repository 提供数据访问层的具体实现
// 本文件实现 ClubEventRepository 接口
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"unisocial_server/internal/model"
)

// clubEventRepository ClubEventRepository 接口的实现
type clubEventRepository struct {
	db *gorm.DB
}

// NewClubEventRepository 创建 ClubEventRepository 实例
func NewClubEventRepository(db *gorm.DB) ClubEventRepository {
	return &clubEventRepository{db: db}
}

// FindByUuid 根据 UUID 查找活动
func (r *clubEventRepository) FindByUuid(ctx context.Context, uuid string) (*model.ClubEvent, error) {
	var e model.ClubEvent
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&e).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询活动 uuid=%s", uuid)
	}
	return &e, nil
}

// FindByClub 社团的全部活动，按开始时间升序
func (r *clubEventRepository) FindByClub(ctx context.Context, clubUuid string) ([]model.ClubEvent, error) {
	var es []model.ClubEvent
	if err := r.db.WithContext(ctx).Where("club_uuid = ?", clubUuid).
		Order("start_time ASC").Find(&es).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询社团活动 club_uuid=%s", clubUuid)
	}
	return es, nil
}

// FindEndingAfter 结束时间不早于 t 的活动，按开始时间升序
func (r *clubEventRepository) FindEndingAfter(ctx context.Context, t time.Time) ([]model.ClubEvent, error) {
	var es []model.ClubEvent
	if err := r.db.WithContext(ctx).Where("end_time >= ?", t).
		Order("start_time ASC").Find(&es).Error; err != nil {
		return nil, wrapDBError(err, "查询未结束活动")
	}
	return es, nil
}

// FindStartingBetween 开始时间落在 [from, to) 的活动
func (r *clubEventRepository) FindStartingBetween(ctx context.Context, from, to time.Time) ([]model.ClubEvent, error) {
	var es []model.ClubEvent
	if err := r.db.WithContext(ctx).Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").Find(&es).Error; err != nil {
		return nil, wrapDBError(err, "按时间段查询活动")
	}
	return es, nil
}

// Create 创建活动
func (r *clubEventRepository) Create(ctx context.Context, event *model.ClubEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return wrapDBErrorf(err, "创建活动 club_uuid=%s", event.ClubUuid)
	}
	return nil
}

// Update 覆盖活动的可编辑字段
func (r *clubEventRepository) Update(ctx context.Context, event *model.ClubEvent) error {
	if err := r.db.WithContext(ctx).Model(&model.ClubEvent{}).Where("uuid = ?", event.Uuid).
		Updates(map[string]any{
			"title":                 event.Title,
			"description":           event.Description,
			"banner_url":            event.BannerUrl,
			"location":              event.Location,
			"start_time":            event.StartTime,
			"end_time":              event.EndTime,
			"registration_link":     event.RegistrationLink,
			"registration_deadline": event.RegistrationDeadline,
			"od_provided":           event.OdProvided,
		}).Error; err != nil {
		return wrapDBErrorf(err, "更新活动 uuid=%s", event.Uuid)
	}
	return nil
}

// DeleteByUuid 删除单个活动
func (r *clubEventRepository) DeleteByUuid(ctx context.Context, uuid string) error {
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&model.ClubEvent{}).Error; err != nil {
		return wrapDBErrorf(err, "删除活动 uuid=%s", uuid)
	}
	return nil
}

// DeleteByClubUuid 删除社团的全部活动
func (r *clubEventRepository) DeleteByClubUuid(ctx context.Context, clubUuid string) error {
	if err := r.db.WithContext(ctx).Where("club_uuid = ?", clubUuid).Delete(&model.ClubEvent{}).Error; err != nil {
		return wrapDBErrorf(err, "删除社团所有活动 club_uuid=%s", clubUuid)
	}
	return nil
}
