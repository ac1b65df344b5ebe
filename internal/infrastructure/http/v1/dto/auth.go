package dto

// LoginRequest carries operator credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}
