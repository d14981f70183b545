package redis

import (
	"context"

	"unisocial_server/pkg/constants"
)

// 社团详情缓存带版本号：key = club_info_<id>:<ver>
// 修改社团或成员关系后递增版本号，读请求之后异步回填的旧数据落在旧版本 key 上，不会被再读到

// ClubInfoKey 当前版本的社团详情缓存 key
func ClubInfoKey(ctx context.Context, c CacheService, clubId string) (string, error) {
	ver, err := c.Get(ctx, constants.ClubVersionKeyPrefix+clubId)
	if err != nil {
		return "", err
	}
	if ver == "" {
		ver = "0"
	}
	return constants.ClubInfoKeyPrefix + clubId + ":" + ver, nil
}

// InvalidateClub 递增社团缓存版本号，旧版本的条目随 TTL 过期
func InvalidateClub(ctx context.Context, c CacheService, clubId string) error {
	_, err := c.Incr(ctx, constants.ClubVersionKeyPrefix+clubId)
	return err
}
