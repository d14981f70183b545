// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 服务器监听地址，如 "0.0.0.0"
	Port    int    `toml:"port"`    // 服务器监听端口，如 8000
	Mode    string `toml:"mode"`    // 运行模式："dev" 或 "release"
}

// StorageConfig 存储后端选择
type StorageConfig struct {
	Driver string `toml:"driver"` // "mysql" | "postgres" | "sqlite" | "memory"
}

// SqliteConfig sqlite 数据库文件配置
type SqliteConfig struct {
	Path string `toml:"path"` // 数据库文件路径
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
}

// PostgresConfig PostgreSQL 数据库连接配置
type PostgresConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
	SSLMode      string `toml:"sslMode"` // disable | require | verify-full
	TimeZone     string `toml:"timeZone"`
}

// RedisConfig Redis 连接配置
// Host 为空时使用进程内缓存
type RedisConfig struct {
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 成员事件通知的消息通道配置
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // 消息模式："channel" 或 "kafka"
	HostPort    string        `toml:"hostPort"`    // Kafka 服务器地址，如 "localhost:9092"
	NotifyTopic string        `toml:"notifyTopic"` // 社团成员事件主题
	Partition   int           `toml:"partition"`   // 分区数
	Timeout     time.Duration `toml:"timeout"`     // 超时时间（秒）
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`             // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 雪花算法节点 ID，范围 0-1023，分布式部署时每台机器需唯一
}

// AdminConfig 平台管理员引导配置
// 列表中的邮箱注册时直接获得平台管理员角色
type AdminConfig struct {
	Emails []string `toml:"emails"`
}

// SecurityConfig HTTPS 相关配置
type SecurityConfig struct {
	TLSRedirect bool   `toml:"tlsRedirect"` // 是否把 HTTP 请求重定向到 HTTPS
	SSLHost     string `toml:"sslHost"`     // 重定向目标 host，留空则使用请求 host
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`      // 主配置
	StorageConfig   `toml:"storageConfig"`   // 存储配置
	MysqlConfig     `toml:"mysqlConfig"`     // MySQL 配置
	PostgresConfig  `toml:"postgresConfig"`  // PostgreSQL 配置
	SqliteConfig    `toml:"sqliteConfig"`    // sqlite 配置
	RedisConfig     `toml:"redisConfig"`     // Redis 配置
	LogConfig       `toml:"logConfig"`       // 日志配置
	KafkaConfig     `toml:"kafkaConfig"`     // Kafka 配置
	JWTConfig       `toml:"jwtConfig"`       // JWT 配置
	SnowflakeConfig `toml:"snowflakeConfig"` // 雪花算法配置
	AdminConfig     `toml:"adminConfig"`     // 平台管理员配置
	SecurityConfig  `toml:"securityConfig"`  // 安全配置
}

// IsBootstrapAdmin 判断邮箱是否在平台管理员引导列表中（忽略大小写）
func (c *Config) IsBootstrapAdmin(email string) bool {
	for _, e := range c.AdminConfig.Emails {
		if strings.EqualFold(strings.TrimSpace(e), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

// applyDefaults 为缺省字段补默认值
func (c *Config) applyDefaults() {
	if c.MainConfig.Mode == "" {
		c.MainConfig.Mode = "dev"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.StorageConfig.Driver == "" {
		c.StorageConfig.Driver = "mysql"
	}
	if c.KafkaConfig.MessageMode == "" {
		c.KafkaConfig.MessageMode = "channel"
	}
	if c.KafkaConfig.NotifyTopic == "" {
		c.KafkaConfig.NotifyTopic = "club_membership_event"
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 1
	}
	if c.JWTConfig.AccessTokenExpiry == 0 {
		c.JWTConfig.AccessTokenExpiry = 30
	}
	if c.JWTConfig.RefreshTokenExpiry == 0 {
		c.JWTConfig.RefreshTokenExpiry = 168
	}
	if c.SqliteConfig.Path == "" {
		c.SqliteConfig.Path = "unisocial.db"
	}
	if c.PostgresConfig.SSLMode == "" {
		c.PostgresConfig.SSLMode = "disable"
	}
	if c.PostgresConfig.TimeZone == "" {
		c.PostgresConfig.TimeZone = "UTC"
	}
}

var (
	config     *Config   // 全局配置单例，延迟加载
	configOnce sync.Once // 保证只加载一次
)

// LoadFile 从指定路径加载配置文件
func LoadFile(path string) (*Config, error) {
	c := new(Config)
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	c.applyDefaults()
	return c, nil
}

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() (*Config, error) {
	// 候选配置文件路径（优先加载本地配置）
	paths := []string{
		"configs/config_local.toml",       // 本地开发配置（优先）
		"configs/config.toml",             // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",       // 从子目录运行时的路径
	}

	for _, path := range paths {
		if c, err := LoadFile(path); err == nil {
			return c, nil
		}
	}

	return nil, fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，找不到时使用默认值
func GetConfig() *Config {
	configOnce.Do(func() {
		c, err := LoadConfig()
		if err != nil {
			c = new(Config)
			c.applyDefaults()
		}
		config = c
	})
	return config
}
