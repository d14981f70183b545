package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"unisocial_server/internal/config"
)

// SecureHeaders 安全响应头，开启 tlsRedirect 时把 HTTP 请求重定向到 HTTPS
func SecureHeaders(conf config.SecurityConfig, mode string) gin.HandlerFunc {
	secureMiddleware := secure.New(secure.Options{
		SSLRedirect:        conf.TLSRedirect,
		SSLHost:            conf.SSLHost,
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		IsDevelopment:      mode == "dev" && !conf.TLSRedirect,
	})

	return func(c *gin.Context) {
		// 重定向时 Process 已经写好响应并返回错误
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			zap.L().Info("secure middleware aborted request", zap.Error(err))
			c.Abort()
			return
		}
		c.Next()
	}
}
