package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glebfedorov911/wb-bidder-auth/internal/dto"
	"github.com/glebfedorov911/wb-bidder-auth/internal/models"
	"github.com/glebfedorov911/wb-bidder-auth/internal/pkg/apperror"
	"github.com/glebfedorov911/wb-bidder-auth/internal/service"
)

// AuthHandler предоставляет HTTP слой для регистрации и входа.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register обрабатывает POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	_, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Firstname:  req.Firstname,
		Lastname:   req.Lastname,
		Patronymic: req.Patronymic,
		Phone:      req.Phone,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "код подтверждения отправлен"})
}

// Login обрабатывает POST /auth/login. Учётные данные приходят
// form-encoded: телефон в поле username.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Username, req.Password, c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Refresh обрабатывает POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout обрабатывает POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "выход выполнен"})
}

// SendSMS обрабатывает POST /auth/send-sms.
func (h *AuthHandler) SendSMS(c *gin.Context) {
	var req dto.PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.auth.SendCode(c.Request.Context(), req.Phone, models.CodePurposeAccountConfirm); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "код подтверждения отправлен"})
}

// ForgotPassword обрабатывает POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Phone); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "код восстановления отправлен"})
}

// VerifySMS обрабатывает POST /auth/verify-sms.
func (h *AuthHandler) VerifySMS(c *gin.Context) {
	var req dto.VerifySMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := h.auth.VerifySMS(c.Request.Context(), req.Phone, req.Code); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "учётная запись подтверждена"})
}

// ResetPassword обрабатывает POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.ResetPassword(c.Request.Context(), req.Phone, req.Code, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// CurrentUser обрабатывает GET /auth/current-user. Токен и отпечаток
// клиента уже проверены в AuthMiddleware.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, apperror.New(apperror.ErrCodeUnauthorized, "требуется авторизация"))
		return
	}

	user, err := h.auth.UserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
