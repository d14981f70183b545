// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"github.com/gin-contrib/cors" // CORS 跨域中间件
	"github.com/gin-gonic/gin"    // Gin Web 框架

	"unisocial_server/internal/config"                    // 配置管理
	"unisocial_server/internal/handler"                   // Handler 聚合对象
	"unisocial_server/internal/infrastructure/logger"     // 自定义日志中间件
	"unisocial_server/internal/infrastructure/middleware" // 安全响应头
	"unisocial_server/internal/router"                    // 路由注册
)

// Init 初始化 HTTP/HTTPS 服务器并返回 Gin 引擎实例
// handlers: 通过依赖注入传入的 handler 聚合对象
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志和恢复中间件
//  3. 配置 CORS 跨域规则和安全响应头
//  4. 注册业务路由
func Init(handlers *handler.Handlers, conf *config.Config) *gin.Engine {
	if conf.MainConfig.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建空白 Gin 引擎（不使用 gin.Default() 以便完全控制中间件）
	engine := gin.New()

	// GinLogger: 记录每个请求的详细信息（路径、状态码、耗时等）
	engine.Use(logger.GinLogger())
	// 参数 true 表示在日志中包含堆栈信息
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // 生产环境应指定具体域名
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// 由 Nginx 处理 SSL 时关闭 tlsRedirect
	engine.Use(middleware.SecureHeaders(conf.SecurityConfig, conf.MainConfig.Mode))

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
