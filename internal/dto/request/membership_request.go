package request

// MembershipIdRequest 审批、升降级等以成员关系 ID 为参数的请求
type MembershipIdRequest struct {
	MembershipId string `json:"membership_id" binding:"required"`
}

// RemoveMemberRequest 移除社团成员
type RemoveMemberRequest struct {
	ClubId string `json:"club_id" binding:"required"`
	UserId string `json:"user_id" binding:"required"`
}
