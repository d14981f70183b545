package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"unisocial_server/pkg/errorx"
	"unisocial_server/pkg/util/jwt"
)

// ContextUserIDKey 认证通过后当前用户 ID 在 gin.Context 中的 key
const ContextUserIDKey = "user_id"

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
		"data": nil,
	})
}

// ParseAccessToken 校验 Access Token 并返回用户 ID
func ParseAccessToken(token string) (string, error) {
	claims, err := jwt.ParseToken(token)
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeUnauthorized, "Token 已过期或无效，请重新登录")
	}
	if claims.Subject != jwt.SubjectAccess {
		return "", errorx.New(errorx.CodeUnauthorized, "请使用 Access Token 访问此接口")
	}
	return claims.UserID, nil
}

// JWTAuth JWT 认证中间件
// 验证 Authorization: Bearer <access token> 并把用户 ID 存入上下文
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "请先登录")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Token 格式错误，请使用 Bearer Token")
			return
		}

		userID, err := ParseAccessToken(parts[1])
		if err != nil {
			var msg string
			if codeErr, ok := err.(*errorx.CodeError); ok {
				msg = codeErr.Msg
			}
			abortUnauthorized(c, msg)
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}
