package request

// RegisterRequest 注册请求
type RegisterRequest struct {
	RegNo    string `json:"reg_no" binding:"required,max=32"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Name     string `json:"name" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=8,max=64"`
}

// LoginRequest 邮箱密码登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
