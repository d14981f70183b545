package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户相关路由（需要认证）
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/user")
	{
		userGroup.GET("/me", rt.handlers.User.Me)
		userGroup.POST("/updateProfile", rt.handlers.User.UpdateProfile)
		userGroup.POST("/deleteAccount", rt.handlers.User.DeleteAccount)
		userGroup.GET("/search", rt.handlers.User.Search)
		userGroup.GET("/getUserInfo", rt.handlers.User.GetUserInfo)

		userGroup.GET("/clubs", rt.handlers.User.MyClubs)             // 已加入的社团
		userGroup.GET("/memberships", rt.handlers.User.MyMemberships) // 全部申请记录
	}
}
