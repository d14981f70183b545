// Package router 提供 HTTP 路由注册
// 本文件定义平台管理员相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册平台管理员相关路由（需要认证）
// 角色校验在 Service 层完成
func (rt *Router) RegisterAdminRoutes(rg *gin.RouterGroup) {
	adminGroup := rg.Group("/admin")
	{
		// ===== 用户管理 =====
		userAdminGroup := adminGroup.Group("/user")
		{
			userAdminGroup.GET("/list", rt.handlers.Admin.ListUsers)
			userAdminGroup.POST("/delete", rt.handlers.Admin.DeleteUser)
		}

		// ===== 社团审核 =====
		clubAdminGroup := adminGroup.Group("/club")
		{
			clubAdminGroup.POST("/verify", rt.handlers.Admin.VerifyClub)
			clubAdminGroup.POST("/reject", rt.handlers.Admin.RejectClub)
			clubAdminGroup.POST("/delete", rt.handlers.Admin.DeleteClub)
		}
	}
}
