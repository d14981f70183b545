// Package handler 提供 HTTP 请求处理器
// 本文件处理用户相关的 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"unisocial_server/internal/dto/request"
	"unisocial_server/internal/service"
)

// UserHandler 用户请求处理器
type UserHandler struct {
	userSvc       service.UserService
	membershipSvc service.MembershipService
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(userSvc service.UserService, membershipSvc service.MembershipService) *UserHandler {
	return &UserHandler{userSvc: userSvc, membershipSvc: membershipSvc}
}

// Register 用户注册
// POST /register
func (h *UserHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Register(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Login 邮箱密码登录
// POST /login
// 响应: 用户信息 + 双 Token
func (h *UserHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Login(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Me 当前登录用户的资料
// GET /user/me
func (h *UserHandler) Me(c *gin.Context) {
	data, err := h.userSvc.GetUserInfo(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetUserInfo 查看指定用户资料
// GET /user/getUserInfo?user_id=xxx
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	var req request.UserIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.GetUserInfo(c.Request.Context(), req.UserId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateProfile 修改个人资料
// POST /user/updateProfile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.UpdateProfile(c.Request.Context(), currentUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Search 搜索用户
// GET /user/search?q=xxx
func (h *UserHandler) Search(c *gin.Context) {
	var req request.SearchUserRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.SearchUsers(c.Request.Context(), req.Query)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteAccount 注销当前账号
// POST /user/deleteAccount
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	if err := h.userSvc.DeleteAccount(c.Request.Context(), currentUserId(c)); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// targetUserId 查询参数 user_id，缺省为当前用户
func targetUserId(c *gin.Context) (string, bool) {
	var req request.OptionalUserIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return "", false
	}
	if req.UserId == "" {
		return currentUserId(c), true
	}
	return req.UserId, true
}

// MyClubs 用户已加入的社团
// GET /user/clubs?user_id=xxx（缺省为当前用户）
func (h *UserHandler) MyClubs(c *gin.Context) {
	userId, ok := targetUserId(c)
	if !ok {
		return
	}
	data, err := h.membershipSvc.ListUserClubs(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MyMemberships 用户的全部成员记录
// GET /user/memberships?user_id=xxx（缺省为当前用户）
func (h *UserHandler) MyMemberships(c *gin.Context) {
	userId, ok := targetUserId(c)
	if !ok {
		return
	}
	data, err := h.membershipSvc.ListAllUserMemberships(c.Request.Context(), userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
