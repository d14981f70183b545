package redis

import (
	"context"
	"path"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"unisocial_server/pkg/errorx"
)

// LocalCache 基于 go-cache 的进程内缓存
// 未配置 Redis 或 Redis 不可达时使用；SubmitTask 同步执行
type LocalCache struct {
	c *cache.Cache
}

// NewLocalCache 创建进程内缓存，过期条目每分钟清理一次
func NewLocalCache() *LocalCache {
	return &LocalCache{c: cache.New(cache.NoExpiration, time.Minute)}
}

// Set ttl <= 0 表示永不过期
func (l *LocalCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	l.c.Set(key, value, ttl)
	return nil
}

func (l *LocalCache) lookup(key string) (string, bool) {
	v, ok := l.c.Get(key)
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case int64:
		// Incr 写入的计数器，与 Redis 一样按字符串返回
		return strconv.FormatInt(x, 10), true
	default:
		return "", false
	}
}

func (l *LocalCache) Get(ctx context.Context, key string) (string, error) {
	v, _ := l.lookup(key)
	return v, nil
}

func (l *LocalCache) GetOrError(ctx context.Context, key string) (string, error) {
	v, ok := l.lookup(key)
	if !ok {
		return "", errorx.Newf(errorx.CodeNotFound, "cache key %s not found", key)
	}
	return v, nil
}

// Incr 计数器加一，键不存在时从 0 开始
func (l *LocalCache) Incr(ctx context.Context, key string) (int64, error) {
	// Add 只在键不存在时成功，已存在的错误可以忽略
	_ = l.c.Add(key, int64(0), cache.NoExpiration)
	n, err := l.c.IncrementInt64(key, 1)
	if err != nil {
		return 0, errorx.Wrapf(err, errorx.CodeCacheError, "incr key %s", key)
	}
	return n, nil
}

func (l *LocalCache) Delete(ctx context.Context, key string) error {
	l.c.Delete(key)
	return nil
}

// DeleteByPattern path.Match 的 * ? [] 语义与 Redis glob 一致（键中不含 '/' 时）
func (l *LocalCache) DeleteByPattern(ctx context.Context, pattern string) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "bad pattern %s", pattern)
	}
	for k := range l.c.Items() {
		if matched, _ := path.Match(pattern, k); matched {
			l.c.Delete(k)
		}
	}
	return nil
}

func (l *LocalCache) SubmitTask(action func()) {
	action()
}

func (l *LocalCache) Close() {}

var _ AsyncCacheService = (*LocalCache)(nil)
