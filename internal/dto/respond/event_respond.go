package respond

import "time"

// EventRespond 社团活动
type EventRespond struct {
	EventId              string     `json:"event_id"`
	ClubId               string     `json:"club_id"`
	ClubName             string     `json:"club_name"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	BannerUrl            string     `json:"banner_url"`
	Location             string     `json:"location"`
	StartTime            time.Time  `json:"start_time"`
	EndTime              time.Time  `json:"end_time"`
	RegistrationLink     string     `json:"registration_link"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	OdProvided           bool       `json:"od_provided"`
	CreatedAt            string     `json:"created_at"`
}
