// Package database 负责建立关系型数据库连接、自动迁移表结构
// 支持 MySQL、PostgreSQL 与 sqlite（文件或进程内）
package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite" // 纯 Go sqlite 驱动，基于 modernc.org/sqlite
	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"       // GORM MySQL 驱动
	postgresdriver "gorm.io/driver/postgres" // GORM PostgreSQL 驱动
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"unisocial_server/internal/config"
	"unisocial_server/internal/model"
)

// MysqlDSN 构建 MySQL DSN 连接字符串
// 格式：user:password@tcp(host:port)/database?params
func MysqlDSN(c *config.MysqlConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DatabaseName)
}

// PostgresDSN 构建 PostgreSQL DSN 连接字符串
func PostgresDSN(c *config.PostgresConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.DatabaseName, c.SSLMode, c.TimeZone)
}

// dialector 根据存储驱动选择 gorm 方言
func dialector(conf *config.Config) (gorm.Dialector, error) {
	switch conf.StorageConfig.Driver {
	case "mysql":
		return mysqldriver.Open(MysqlDSN(&conf.MysqlConfig)), nil
	case "postgres":
		return postgresdriver.Open(PostgresDSN(&conf.PostgresConfig)), nil
	case "sqlite":
		return sqlite.Open(conf.SqliteConfig.Path), nil
	case "memory":
		return sqlite.Open(":memory:"), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", conf.StorageConfig.Driver)
	}
}

// gormConfig 开发模式打印全部 SQL，生产模式只记录慢查询与错误
// TranslateError 让唯一索引冲突统一返回 gorm.ErrDuplicatedKey
func gormConfig(mode string) *gorm.Config {
	level := gormLogger.Warn
	if mode == "dev" {
		level = gormLogger.Info
	}
	return &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
				Colorful:                  mode == "dev",
			},
		),
	}
}

// Open 建立数据库连接并执行 AutoMigrate
// 执行步骤：
//  1. 按 storageConfig.driver 选择方言并构建 DSN
//  2. 使用 GORM 建立数据库连接
//  3. 执行 AutoMigrate 自动迁移表结构
func Open(conf *config.Config) (*gorm.DB, error) {
	d, err := dialector(conf)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, gormConfig(conf.MainConfig.Mode))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", conf.StorageConfig.Driver, err)
	}
	if isSqlite(conf.StorageConfig.Driver) {
		// sqlite 只允许一个写者；进程内库的数据也只存在于这一条连接上
		// 单连接同时让事务整体串行，FOR UPDATE 在 sqlite 下不生效
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// 如果表不存在则创建，如果字段变更则更新结构
	// 注意：不会删除已有字段或数据
	if err := db.AutoMigrate(model.Migrations...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	zap.L().Info("database connected", zap.String("driver", conf.StorageConfig.Driver))
	return db, nil
}

func isSqlite(driver string) bool {
	return driver == "sqlite" || driver == "memory"
}

// OpenMemory 打开一个空的进程内数据库并完成迁移
func OpenMemory(mode string) (*gorm.DB, error) {
	return Open(&config.Config{
		MainConfig:    config.MainConfig{Mode: mode},
		StorageConfig: config.StorageConfig{Driver: "memory"},
	})
}
