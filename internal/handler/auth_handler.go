// Package handler 提供 HTTP 请求处理器
// 本文件处理认证相关的 API 请求
package handler

import (
	"github.com/gin-gonic/gin"

	"unisocial_server/internal/dto/request"
	"unisocial_server/internal/service"
)

// AuthHandler 认证请求处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// RefreshToken 刷新 Access Token
// POST /auth/refresh
// 响应: { access_token: string }
//
// 用户在其他设备登录后旧的 Refresh Token 会被拒绝
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	accessToken, err := h.authSvc.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{
		"access_token": accessToken,
	})
}
