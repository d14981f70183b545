// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"

	"unisocial_server/internal/handler"
	"unisocial_server/internal/infrastructure/middleware"
)

// Router 持有 Handler 聚合对象，各模块路由通过它取到处理函数
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
// 按模块分别注册各个路由组
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	// 公开接口 (无需认证)
	rt.RegisterAuthRoutes(r)      // 注册、登录、Token 刷新
	rt.RegisterWebSocketRoutes(r) // WebSocket 自行校验 query 中的 token

	// 需要认证的接口
	authed := r.Group("")
	authed.Use(middleware.JWTAuth())
	{
		rt.RegisterUserRoutes(authed)  // 用户路由
		rt.RegisterClubRoutes(authed)  // 社团与成员管理路由
		rt.RegisterAdminRoutes(authed) // 平台管理员路由
	}
}
