package request

// UpdateProfileRequest 更新个人资料
// 空字段表示不修改
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,max=64"`
	Bio   string `json:"bio" binding:"omitempty,max=500"`
	DpUrl string `json:"dp_url" binding:"omitempty,url,max=255"`
}

// SearchUserRequest 用户搜索，q 为空时由业务层返回参数错误
type SearchUserRequest struct {
	Query string `form:"q"`
}

// UserIdRequest 以用户 ID 为参数的请求
type UserIdRequest struct {
	UserId string `json:"user_id" form:"user_id" binding:"required"`
}

// OptionalUserIdRequest user_id 可选，缺省为当前登录用户
type OptionalUserIdRequest struct {
	UserId string `form:"user_id"`
}
