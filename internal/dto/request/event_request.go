package request

import "time"

// EventBody 活动内容，创建和修改时整体提交
// 时间使用 RFC3339 格式
type EventBody struct {
	Title                string     `json:"title" binding:"required,max=200"`
	Description          string     `json:"description" binding:"required"`
	BannerUrl            string     `json:"banner_url" binding:"omitempty,url,max=255"`
	Location             string     `json:"location" binding:"required,max=255"`
	StartTime            time.Time  `json:"start_time" binding:"required"`
	EndTime              time.Time  `json:"end_time" binding:"required,gtfield=StartTime"`
	RegistrationLink     string     `json:"registration_link" binding:"omitempty,url,max=255"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	OdProvided           *bool      `json:"od_provided" binding:"required"`
}

// CreateEventRequest 发布活动
type CreateEventRequest struct {
	ClubId string `json:"club_id" binding:"required"`
	EventBody
}

// UpdateEventRequest 修改活动
type UpdateEventRequest struct {
	EventId string `json:"event_id" binding:"required"`
	EventBody
}

// EventIdRequest 以活动 ID 为参数的请求
type EventIdRequest struct {
	EventId string `json:"event_id" form:"event_id" binding:"required"`
}

// EventMonthRequest 按月查询活动
type EventMonthRequest struct {
	Year  int `form:"year" binding:"required,min=1970,max=9999"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}
