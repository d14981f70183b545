package constants

const (
	CHANNEL_SIZE      = 100 // 通道大小
	REDIS_TIMEOUT     = 30  // 缓存有效期（分钟）
	USER_SEARCH_LIMIT = 10  // 用户搜索最多返回条数
)

// TIME_LAYOUT 接口返回的时间格式
const TIME_LAYOUT = "2006-01-02 15:04:05"

// 缓存 key 前缀
const (
	ClubInfoKeyPrefix    = "club_info_"
	ClubVersionKeyPrefix = "club_ver_"
	UserTokenKeyPrefix   = "user_token:"
)

// 雪花 ID 前缀，区分实体类型
const (
	UserUuidPrefix       = "U"
	ClubUuidPrefix       = "C"
	MembershipUuidPrefix = "M"
	EventUuidPrefix      = "E"
)
