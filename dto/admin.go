package dto

// AdminLoginRequest là body của POST /api/admin/login
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse trả về token JWT cho admin
type AdminLoginResponse struct {
	Token string `json:"token"`
}
