package user_role_enum

// 平台级角色
const (
	USER  = "USER"
	ADMIN = "ADMIN"
)
