package respond

// ClubRespond 社团详情
// Verified: true 已认证，false 待审核，null 已驳回
type ClubRespond struct {
	ClubId          string `json:"club_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	LogoUrl         string `json:"logo_url"`
	Verified        *bool  `json:"verified"`
	CreatedAt       string `json:"created_at"`
	CreatedByUserId string `json:"created_by_user_id"`
	CreatedByName   string `json:"created_by_name"`
	MemberCount     int64  `json:"member_count"` // 已通过审核的成员数
	AdminCount      int64  `json:"admin_count"`
}

// MembershipStatusRespond 当前用户在某社团的成员状态
type MembershipStatusRespond struct {
	IsMember     bool   `json:"is_member"`
	Status       string `json:"status"`
	Role         string `json:"role"`
	MembershipId string `json:"membership_id,omitempty"`
}
