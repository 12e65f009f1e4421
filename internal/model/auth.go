package model

type LoginRequest struct {
	GitLabURL string `json:"gitlab_url" form:"gitlab_url"`
	Token     string `json:"token" form:"token" binding:"required"`
}

type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expires_at"`
	User      UserInfo `json:"user"`
}

// ResponseApi is the envelope used by the auth endpoints.
type ResponseApi struct {
	ApiMessage string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}
