package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"unisocial_server/internal/dto/request"
	"unisocial_server/internal/dto/respond"
	"unisocial_server/internal/service"
)

// MembershipHandler 社团成员管理请求处理器
// 除查询外的接口都要求当前用户是该社团的管理员，由 Service 层校验
type MembershipHandler struct {
	membershipSvc service.MembershipService
}

// NewMembershipHandler 创建成员管理处理器实例
func NewMembershipHandler(membershipSvc service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipSvc: membershipSvc}
}

type membershipAction func(ctx context.Context, actingUserId, membershipId string) (*respond.ClubMembershipRespond, error)

// byMembershipId 以 membership_id 为参数的操作共用的绑定与响应流程
func byMembershipId(action membershipAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req request.MembershipIdRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleParamError(c, err)
			return
		}
		data, err := action(c.Request.Context(), currentUserId(c), req.MembershipId)
		if err != nil {
			HandleError(c, err)
			return
		}
		HandleSuccess(c, data)
	}
}

// Approve POST /club/membership/approve
func (h *MembershipHandler) Approve(c *gin.Context) {
	byMembershipId(h.membershipSvc.Approve)(c)
}

// Reject POST /club/membership/reject
func (h *MembershipHandler) Reject(c *gin.Context) {
	byMembershipId(h.membershipSvc.Reject)(c)
}

// Promote POST /club/membership/promote
func (h *MembershipHandler) Promote(c *gin.Context) {
	byMembershipId(h.membershipSvc.PromoteToAdmin)(c)
}

// Demote POST /club/membership/demote
func (h *MembershipHandler) Demote(c *gin.Context) {
	byMembershipId(h.membershipSvc.DemoteAdmin)(c)
}

// Remove 移除成员
// POST /club/membership/remove
func (h *MembershipHandler) Remove(c *gin.Context) {
	var req request.RemoveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.membershipSvc.RemoveMember(c.Request.Context(), currentUserId(c), req.ClubId, req.UserId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Pending 待审核申请
// GET /club/membership/pending?club_id=xxx
func (h *MembershipHandler) Pending(c *gin.Context) {
	var req request.ClubIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.membershipSvc.ListPending(c.Request.Context(), currentUserId(c), req.ClubId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Members 已通过的成员
// GET /club/membership/members?club_id=xxx
func (h *MembershipHandler) Members(c *gin.Context) {
	var req request.ClubIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.membershipSvc.ListMembers(c.Request.Context(), currentUserId(c), req.ClubId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
