package handler

import (
	"github.com/gin-gonic/gin"

	"unisocial_server/internal/dto/request"
	"unisocial_server/internal/service"
)

// AdminHandler 平台管理员接口
type AdminHandler struct {
	userSvc service.UserService
	clubSvc service.ClubService
}

// NewAdminHandler 创建平台管理处理器实例
func NewAdminHandler(userSvc service.UserService, clubSvc service.ClubService) *AdminHandler {
	return &AdminHandler{userSvc: userSvc, clubSvc: clubSvc}
}

// ListUsers GET /admin/user/list
func (h *AdminHandler) ListUsers(c *gin.Context) {
	data, err := h.userSvc.ListUsers(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteUser POST /admin/user/delete
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	var req request.UserIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.userSvc.DeleteUser(c.Request.Context(), currentUserId(c), req.UserId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// VerifyClub POST /admin/club/verify
func (h *AdminHandler) VerifyClub(c *gin.Context) {
	var req request.ClubIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.clubSvc.VerifyClub(c.Request.Context(), currentUserId(c), req.ClubId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// RejectClub POST /admin/club/reject
func (h *AdminHandler) RejectClub(c *gin.Context) {
	var req request.ClubIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.clubSvc.RejectClub(c.Request.Context(), currentUserId(c), req.ClubId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteClub POST /admin/club/delete
func (h *AdminHandler) DeleteClub(c *gin.Context) {
	var req request.ClubIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.clubSvc.DeleteClub(c.Request.Context(), currentUserId(c), req.ClubId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
