package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/glebfedorov911/wb-bidder-auth/internal/http/middleware"
	"github.com/glebfedorov911/wb-bidder-auth/internal/models"
	"github.com/glebfedorov911/wb-bidder-auth/internal/pkg/apperror"
	"github.com/glebfedorov911/wb-bidder-auth/internal/security"
	"github.com/glebfedorov911/wb-bidder-auth/internal/service"
)

// Хранилища в памяти для HTTP тестов.

type memUserRepo struct {
	byPhone map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byPhone: map[string]*models.User{}, byID: map[uuid.UUID]*models.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, ok := m.byPhone[user.Phone]; ok {
		return apperror.New(apperror.ErrCodeConflict, "пользователь с таким телефоном уже существует")
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.byPhone[user.Phone] = user
	m.byID[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	if user, ok := m.byPhone[phone]; ok {
		return user, nil
	}
	return nil, apperror.ErrUserNotFound
}

func (m *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.byID[id]; ok {
		return user, nil
	}
	return nil, apperror.ErrUserNotFound
}

func (m *memUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) (*models.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	user.Status = status
	return user, nil
}

func (m *memUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash []byte) (*models.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return user, nil
}

type memTokenRepo struct {
	byDigest map[string]*models.RefreshToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{byDigest: map[string]*models.RefreshToken{}}
}

func (m *memTokenRepo) Create(ctx context.Context, userID uuid.UUID, tokenDigest string, expiresAt time.Time) (*models.RefreshToken, error) {
	token := &models.RefreshToken{ID: uuid.New(), UserID: userID, Token: tokenDigest, ExpiresAt: expiresAt, Using: true}
	m.byDigest[tokenDigest] = token
	return token, nil
}

func (m *memTokenRepo) FindActiveByDigest(ctx context.Context, tokenDigest string) (*models.RefreshToken, error) {
	if token, ok := m.byDigest[tokenDigest]; ok && token.Using {
		return token, nil
	}
	return nil, apperror.ErrTokenNotFound
}

func (m *memTokenRepo) Deactivate(ctx context.Context, tokenDigest string) error {
	token, ok := m.byDigest[tokenDigest]
	if !ok {
		return apperror.ErrTokenNotFound
	}
	token.Using = false
	return nil
}

type memVerificationRepo struct {
	codes map[uuid.UUID]*models.VerificationCode
}

func newMemVerificationRepo() *memVerificationRepo {
	return &memVerificationRepo{codes: map[uuid.UUID]*models.VerificationCode{}}
}

func (m *memVerificationRepo) Create(ctx context.Context, code *models.VerificationCode) error {
	code.ID = uuid.New()
	code.CreatedAt = time.Now()
	m.codes[code.ID] = code
	return nil
}

func (m *memVerificationRepo) FindValid(ctx context.Context, userID uuid.UUID, code string, purpose models.CodePurpose, now time.Time) (*models.VerificationCode, error) {
	for _, vc := range m.codes {
		if vc.UserID == userID && vc.Code == code && vc.Purpose == purpose && !vc.IsUsed && vc.ExpiresAt.After(now) {
			return vc, nil
		}
	}
	return nil, apperror.ErrCodeNotFoundErr
}

func (m *memVerificationRepo) MarkUsed(ctx context.Context, id uuid.UUID) error {
	if vc, ok := m.codes[id]; ok {
		vc.IsUsed = true
	}
	return nil
}

type memSender struct {
	lastByPhone map[string]string
}

func newMemSender() *memSender { return &memSender{lastByPhone: map[string]string{}} }

func (m *memSender) Send(ctx context.Context, phone, code string) error {
	m.lastByPhone[phone] = code
	return nil
}

// newTestRouter собирает gin.Engine с полным стеком аутентификации
// поверх хранилищ в памяти.
func newTestRouter(t *testing.T) (*gin.Engine, *memSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sender := newMemSender()
	tokenManager := service.NewTokenManager("test-secret", "HS256", time.Minute, time.Hour, security.NewFingerprinter())
	userService := service.NewUserService(newMemUserRepo(), security.NewPasswordHasher(bcrypt.MinCost))
	verificationService := service.NewVerificationService(newMemVerificationRepo(), security.NewCodeGenerator(), 30*time.Minute, security.DefaultCodeLength)
	authService := service.NewAuthService(userService, verificationService, tokenManager, newMemTokenRepo(), sender, security.NewTokenDigest("digest-secret"))

	handler := NewAuthHandler(authService)

	r := gin.New()
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/refresh", handler.Refresh)
		auth.POST("/logout", handler.Logout)
		auth.POST("/send-sms", handler.SendSMS)
		auth.POST("/forgot-password", handler.ForgotPassword)
		auth.POST("/verify-sms", handler.VerifySMS)
		auth.POST("/reset-password", handler.ResetPassword)
	}
	protected := r.Group("/api/auth")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/current-user", handler.CurrentUser)
	}

	return r, sender
}

func postJSON(r *gin.Engine, path string, body interface{}, ua string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndVerify(t *testing.T, r *gin.Engine, sender *memSender) {
	t.Helper()

	w := postJSON(r, "/api/auth/register", map[string]string{
		"firstname": "Глеб",
		"lastname":  "Фёдоров",
		"phone":     "+79991234567",
		"password":  "Secret123!",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	code := sender.lastByPhone["+79991234567"]
	assert.NotEmpty(t, code)

	w = postJSON(r, "/api/auth/verify-sms", map[string]string{
		"phone": "+79991234567",
		"code":  code,
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func loginForm(r *gin.Engine, username, password, ua string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req, _ := http.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", ua)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register_BadBody(t *testing.T) {
	r, _ := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("не json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/api/auth/register", map[string]string{
		"firstname": "Глеб",
		"lastname":  "Фёдоров",
		"phone":     "12345",
		"password":  "Secret123!",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	r, sender := newTestRouter(t)
	registerAndVerify(t, r, sender)

	w := postJSON(r, "/api/auth/register", map[string]string{
		"firstname": "Глеб",
		"lastname":  "Фёдоров",
		"phone":     "+79991234567",
		"password":  "Secret123!",
	}, "")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_LoginFlow(t *testing.T) {
	r, sender := newTestRouter(t)
	registerAndVerify(t, r, sender)

	w := loginForm(r, "+79991234567", "Secret123!", "Mozilla/5.0")
	assert.Equal(t, http.StatusOK, w.Code)

	var pair service.TokenPair
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	r, sender := newTestRouter(t)
	registerAndVerify(t, r, sender)

	w := loginForm(r, "+79991234567", "WrongPass1!", "Mozilla/5.0")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_RefreshAndLogout(t *testing.T) {
	r, sender := newTestRouter(t)
	registerAndVerify(t, r, sender)

	w := loginForm(r, "+79991234567", "Secret123!", "Mozilla/5.0")
	assert.Equal(t, http.StatusOK, w.Code)

	var pair service.TokenPair
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))

	w = postJSON(r, "/api/auth/refresh", map[string]string{"refresh_token": pair.RefreshToken}, "Mozilla/5.0")
	assert.Equal(t, http.StatusOK, w.Code)

	// Тот же refresh токен с чужим User-Agent отклоняется.
	w = postJSON(r, "/api/auth/refresh", map[string]string{"refresh_token": pair.RefreshToken}, "curl/8.0")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/auth/logout", map[string]string{"refresh_token": pair.RefreshToken}, "Mozilla/5.0")
	assert.Equal(t, http.StatusOK, w.Code)

	// После выхода токен больше не обновляется.
	w = postJSON(r, "/api/auth/refresh", map[string]string{"refresh_token": pair.RefreshToken}, "Mozilla/5.0")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_CurrentUser(t *testing.T) {
	r, sender := newTestRouter(t)
	registerAndVerify(t, r, sender)

	w := loginForm(r, "+79991234567", "Secret123!", "Mozilla/5.0")
	assert.Equal(t, http.StatusOK, w.Code)

	var pair service.TokenPair
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusOK, w2.Code)

	var user models.User
	assert.NoError(t, json.Unmarshal(w2.Body.Bytes(), &user))
	assert.Equal(t, "+79991234567", user.Phone)
	assert.Equal(t, models.AccountStatusActive, user.Status)
	// Хэш пароля не должен сериализоваться.
	assert.NotContains(t, w2.Body.String(), "password")
}

func TestAuthHandler_CurrentUser_NoToken(t *testing.T) {
	r, _ := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/current-user", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_CurrentUser_ForeignClient(t *testing.T) {
	r, sender := newTestRouter(t)
	registerAndVerify(t, r, sender)

	w := loginForm(r, "+79991234567", "Secret123!", "Mozilla/5.0")
	var pair service.TokenPair
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.Header.Set("User-Agent", "curl/8.0")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestAuthHandler_ForgotAndResetPassword(t *testing.T) {
	r, sender := newTestRouter(t)
	registerAndVerify(t, r, sender)

	w := postJSON(r, "/api/auth/forgot-password", map[string]string{"phone": "+79991234567"}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	code := sender.lastByPhone["+79991234567"]
	assert.NotEmpty(t, code)

	w = postJSON(r, "/api/auth/reset-password", map[string]string{
		"phone":        "+79991234567",
		"code":         code,
		"new_password": "NewSecret1!",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = loginForm(r, "+79991234567", "NewSecret1!", "Mozilla/5.0")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_SendSMS_UnknownPhone(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/api/auth/send-sms", map[string]string{"phone": "+70000000000"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
