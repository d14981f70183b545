package handler

import (
	"github.com/gin-gonic/gin"

	"unisocial_server/internal/dto/request"
	"unisocial_server/internal/service"
)

// ClubHandler 社团请求处理器
type ClubHandler struct {
	clubSvc       service.ClubService
	membershipSvc service.MembershipService
}

// NewClubHandler 创建社团处理器实例
func NewClubHandler(clubSvc service.ClubService, membershipSvc service.MembershipService) *ClubHandler {
	return &ClubHandler{clubSvc: clubSvc, membershipSvc: membershipSvc}
}

// CreateClub 创建社团
// POST /club/createClub
func (h *ClubHandler) CreateClub(c *gin.Context) {
	var req request.CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.clubSvc.CreateClub(c.Request.Context(), currentUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetClubInfo 社团详情
// GET /club/getClubInfo?club_id=xxx
func (h *ClubHandler) GetClubInfo(c *gin.Context) {
	var req request.ClubIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.clubSvc.GetClub(c.Request.Context(), req.ClubId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListClubs 社团列表
// GET /club/list?verified=true|false|all
func (h *ClubHandler) ListClubs(c *gin.Context) {
	var req request.ListClubRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.clubSvc.ListClubs(c.Request.Context(), req.Verified)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateClub 修改社团资料
// POST /club/updateClub
func (h *ClubHandler) UpdateClub(c *gin.Context) {
	var req request.UpdateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.clubSvc.UpdateClub(c.Request.Context(), currentUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Join 申请加入社团
// POST /club/join
func (h *ClubHandler) Join(c *gin.Context) {
	var req request.ClubIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.membershipSvc.RequestJoin(c.Request.Context(), currentUserId(c), req.ClubId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MembershipStatus 当前用户在社团的成员状态
// GET /club/membershipStatus?club_id=xxx
func (h *ClubHandler) MembershipStatus(c *gin.Context) {
	var req request.ClubIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.clubSvc.GetMembershipStatus(c.Request.Context(), currentUserId(c), req.ClubId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
