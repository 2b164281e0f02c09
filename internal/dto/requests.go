package dto

// RegisterRequest - тело запроса POST /auth/register.
type RegisterRequest struct {
	Firstname  string  `json:"firstname" binding:"required"`
	Lastname   string  `json:"lastname" binding:"required"`
	Patronymic *string `json:"patronymic"`
	Phone      string  `json:"phone" binding:"required"`
	Email      *string `json:"email"`
	Password   string  `json:"password" binding:"required"`
}

// LoginRequest - form-encoded тело POST /auth/login. Телефон передаётся
// в поле username, как в стандартной password-форме OAuth2.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// RefreshRequest - тело POST /auth/refresh и POST /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// PhoneRequest - тело POST /auth/send-sms и POST /auth/forgot-password.
type PhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifySMSRequest - тело POST /auth/verify-sms.
type VerifySMSRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// ResetPasswordRequest - тело POST /auth/reset-password.
type ResetPasswordRequest struct {
	Phone       string `json:"phone" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}
