package respond

// UserInfoRespond 用户资料
type UserInfoRespond struct {
	Uuid      string `json:"user_id"`
	RegNo     string `json:"reg_no"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Bio       string `json:"bio"`
	DpUrl     string `json:"dp_url"`
	CreatedAt string `json:"created_at"`
}

// LoginRespond 登录返回
type LoginRespond struct {
	UserInfoRespond
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
