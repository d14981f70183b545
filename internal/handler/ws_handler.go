// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接相关的 API 请求
package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unisocial_server/internal/infrastructure/middleware"
	"unisocial_server/internal/service/notify"
	"unisocial_server/pkg/errorx"
)

// WsHandler WebSocket 处理器
type WsHandler struct {
	broker notify.Broker
}

// NewWsHandler 创建 WebSocket 处理器实例
func NewWsHandler(broker notify.Broker) *WsHandler {
	return &WsHandler{broker: broker}
}

// Connect 建立成员事件推送连接
// GET /ws?token=<access token>
// 浏览器的 WebSocket API 不能设置 Header，所以 Access Token 放在查询参数里
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "请先登录"))
		return
	}
	userId, err := middleware.ParseAccessToken(token)
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := notify.Serve(h.broker, c.Writer, c.Request, userId); err != nil {
		// Upgrade 失败时已写入错误响应
		zap.L().Info("ws 升级失败", zap.String("user_id", userId), zap.Error(err))
	}
}
