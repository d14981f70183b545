package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"unisocial_server/internal/config"
	"unisocial_server/internal/dao/database"
	myredis "unisocial_server/internal/dao/redis"
	"unisocial_server/internal/dao/repository"
	"unisocial_server/internal/handler"
	"unisocial_server/internal/https_server"
	"unisocial_server/internal/infrastructure/logger"
	"unisocial_server/internal/service"
	"unisocial_server/internal/service/notify"
	"unisocial_server/pkg/util/jwt"
	"unisocial_server/pkg/util/snowflake"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer zap.L().Sync()
	zap.L().Info("日志初始化成功")

	// 3. 初始化 JWT、ID 生成器和参数校验翻译器
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("初始化校验翻译器失败", zap.Error(err))
	}

	// 4. 初始化存储
	repos, err := openRepositories(conf)
	if err != nil {
		zap.L().Fatal("存储初始化失败", zap.Error(err))
	}
	zap.L().Info("存储初始化成功", zap.String("driver", conf.StorageConfig.Driver))

	// 5. 初始化缓存（Redis 不可用时降级为进程内缓存）
	cacheService := myredis.NewCacheService(&conf.RedisConfig)
	defer cacheService.Close()

	// 6. 初始化成员事件推送
	broker := notify.NewBroker(&conf.KafkaConfig)
	go broker.Start()
	zap.L().Info("事件推送初始化成功", zap.String("mode", conf.KafkaConfig.MessageMode))

	// 7. 初始化 Service 和 Handler 层 (依赖注入)
	services := service.NewServices(repos, cacheService, notify.NewDispatcher(broker), conf.IsBootstrapAdmin)
	handlers := handler.NewHandlers(services, broker)

	// 8. 初始化 HTTPS 服务器
	engine := https_server.Init(handlers, conf)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("服务器关闭异常", zap.Error(err))
	}
	broker.Close()

	zap.L().Info("服务器已关闭")
}

// openRepositories 按 storageConfig.driver 打开数据库
func openRepositories(conf *config.Config) (*repository.Repositories, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	return repository.NewRepositories(db), nil
}
