package request

// CreateClubRequest 创建社团
type CreateClubRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=1000"`
	LogoUrl     string `json:"logo_url" binding:"omitempty,url,max=255"`
}

// UpdateClubRequest 更新社团资料，空字段表示不修改
type UpdateClubRequest struct {
	ClubId      string `json:"club_id" binding:"required"`
	Name        string `json:"name" binding:"omitempty,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	LogoUrl     string `json:"logo_url" binding:"omitempty,url,max=255"`
}

// ClubIdRequest 以社团 ID 为参数的请求
type ClubIdRequest struct {
	ClubId string `json:"club_id" form:"club_id" binding:"required"`
}

// ListClubRequest 社团列表过滤：true 已认证（默认），false 待审核，all 全部
type ListClubRequest struct {
	Verified string `form:"verified" binding:"omitempty,oneof=true false all"`
}
