package respond

// ClubMembershipRespond 成员关系视图
type ClubMembershipRespond struct {
	MembershipId string `json:"membership_id"`
	ClubId       string `json:"club_id"`
	ClubName     string `json:"club_name"`
	ClubVerified *bool  `json:"club_verified"`
	UserId       string `json:"user_id"`
	UserName     string `json:"user_name"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	JoinedAt     string `json:"joined_at"`
}
