package membership_role_enum

// 社团内角色
const (
	MEMBER = "MEMBER"
	ADMIN  = "ADMIN"
	NONE   = "NONE" // 没有成员记录
)
