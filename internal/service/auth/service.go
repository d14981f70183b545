// Package auth 提供认证相关的业务逻辑
// 处理 Token 验证、刷新等功能
package auth

import (
	"context"

	"go.uber.org/zap"

	myredis "unisocial_server/internal/dao/redis"
	"unisocial_server/pkg/constants"
	"unisocial_server/pkg/errorx"
	"unisocial_server/pkg/util/jwt"
)

// Service 认证服务实现
type Service struct {
	cache myredis.CacheService
}

// NewAuthService 创建认证服务实例
func NewAuthService(cache myredis.CacheService) *Service {
	return &Service{
		cache: cache,
	}
}

// ValidateTokenID 验证用户的 Refresh Token ID 是否仍是最新一次登录签发的
func (s *Service) ValidateTokenID(ctx context.Context, userID, tokenID string) (bool, error) {
	validTokenID, err := s.cache.Get(ctx, constants.UserTokenKeyPrefix+userID)
	if err != nil {
		return false, err
	}
	if validTokenID == "" {
		return false, nil
	}
	return tokenID == validTokenID, nil
}

// RefreshAccessToken 用 Refresh Token 换取新的 Access Token
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeUnauthorized, "Refresh Token 无效或已过期")
	}
	if claims.Subject != jwt.SubjectRefresh {
		return "", errorx.New(errorx.CodeUnauthorized, "Token 类型错误")
	}

	valid, err := s.ValidateTokenID(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		zap.L().Error("校验 Token ID 失败", zap.Error(err))
		return "", errorx.ErrServerBusy
	}
	if !valid {
		return "", errorx.New(errorx.CodeUnauthorized, "账号已在其他设备登录，请重新登录")
	}

	accessToken, err := jwt.GenerateAccessToken(claims.UserID)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return "", errorx.ErrServerBusy
	}
	return accessToken, nil
}
