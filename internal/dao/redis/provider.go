package redis

import (
	"context"
	"time"

	"go.uber.org/zap"

	"unisocial_server/internal/config"
)

// NewCacheService 按配置创建缓存服务
// 未配置 Redis 地址时使用进程内缓存；Redis 不可达时记录日志并降级为进程内缓存
func NewCacheService(conf *config.RedisConfig) AsyncCacheService {
	if conf.Host == "" {
		zap.L().Info("redis host not configured, using local cache")
		return NewLocalCache()
	}
	rc := NewRedisCache(NewRedisClient(conf), 15, 3000)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		zap.L().Error("redis unreachable, using local cache", zap.Error(err))
		rc.Close()
		return NewLocalCache()
	}
	return rc
}
