package refresh

// RefreshTokenResponse 刷新令牌响应
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // 访问令牌
	ExpiresIn   int64  `json:"expires_in" example:"28800"`                                     // 访问令牌有效期（秒）
}

// Result 令牌轮换结果，新的刷新令牌只写 Cookie
type Result struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}
