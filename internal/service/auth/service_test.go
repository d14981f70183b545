package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	myredis "unisocial_server/internal/dao/redis"
	"unisocial_server/pkg/constants"
	"unisocial_server/pkg/errorx"
	"unisocial_server/pkg/util/jwt"
)

func TestRefreshAccessToken(t *testing.T) {
	jwt.Init("test-secret", 30, 168)
	ctx := context.Background()
	cache := myredis.NewLocalCache()
	svc := NewAuthService(cache)

	refresh, tokenID, err := jwt.GenerateRefreshToken("U1")
	require.NoError(t, err)

	// 缓存里没有记录
	_, err = svc.RefreshAccessToken(ctx, refresh)
	require.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))

	require.NoError(t, cache.Set(ctx, constants.UserTokenKeyPrefix+"U1", tokenID, time.Hour))
	access, err := svc.RefreshAccessToken(ctx, refresh)
	require.NoError(t, err)
	claims, err := jwt.ParseToken(access)
	require.NoError(t, err)
	require.Equal(t, "U1", claims.UserID)
	require.Equal(t, jwt.SubjectAccess, claims.Subject)

	// 另一台设备登录后旧 Refresh Token 失效
	require.NoError(t, cache.Set(ctx, constants.UserTokenKeyPrefix+"U1", "newer", time.Hour))
	_, err = svc.RefreshAccessToken(ctx, refresh)
	require.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))

	// Access Token 不能用来刷新
	_, err = svc.RefreshAccessToken(ctx, access)
	require.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))

	_, err = svc.RefreshAccessToken(ctx, "garbage")
	require.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}
