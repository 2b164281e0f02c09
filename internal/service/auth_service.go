package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/glebfedorov911/wb-bidder-auth/internal/logger"
	"github.com/glebfedorov911/wb-bidder-auth/internal/models"
	"github.com/glebfedorov911/wb-bidder-auth/internal/pkg/apperror"
	"github.com/glebfedorov911/wb-bidder-auth/internal/security"
	"github.com/glebfedorov911/wb-bidder-auth/internal/sms"
)

// RefreshTokenRepository описывает хранилище выданных refresh токенов.
// Токены передаются уже в виде одностороннего дайджеста.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenDigest string, expiresAt time.Time) (*models.RefreshToken, error)
	FindActiveByDigest(ctx context.Context, tokenDigest string) (*models.RefreshToken, error)
	Deactivate(ctx context.Context, tokenDigest string) error
}

// AuthService связывает учётные записи, токены, одноразовые коды и SMS
// шлюз в сценарии регистрации и входа. Состояние живёт в хранилище,
// сервис не держит ничего между запросами.
type AuthService struct {
	users     *UserService
	codes     *VerificationService
	tokens    *TokenManager
	tokenRepo RefreshTokenRepository
	sender    sms.Sender
	digest    *security.TokenDigest
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(
	users *UserService,
	codes *VerificationService,
	tokens *TokenManager,
	tokenRepo RefreshTokenRepository,
	sender sms.Sender,
	digest *security.TokenDigest,
) *AuthService {
	return &AuthService{
		users:     users,
		codes:     codes,
		tokens:    tokens,
		tokenRepo: tokenRepo,
		sender:    sender,
		digest:    digest,
	}
}

// Register создаёт пользователя в статусе PENDING и отправляет код
// подтверждения. Если пользователь создан, а SMS не ушло, ошибка
// отличается от отказа в регистрации: учётная запись уже существует.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := s.users.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.issueAndSendCode(ctx, user, models.CodePurposeAccountConfirm); err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Warn("auth service: пользователь создан, но код не отправлен")
		}
		return user, apperror.Wrap(err, apperror.ErrCodeSMSGateway,
			"учётная запись создана, но код подтверждения не отправлен")
	}

	return user, nil
}

// Login проверяет учётные данные и выпускает пару токенов. Refresh токен
// сохраняется в хранилище только в виде дайджеста, клиенту уходит сырой.
func (s *AuthService) Login(ctx context.Context, phone, password, clientSource string) (*TokenPair, error) {
	user, err := s.users.Authenticate(ctx, phone, password)
	if err != nil {
		return nil, err
	}

	pair, _, refreshExp, err := s.tokens.IssuePair(user.ID, clientSource)
	if err != nil {
		return nil, err
	}

	if _, err := s.tokenRepo.Create(ctx, user.ID, s.digest.Encode(pair.RefreshToken), refreshExp); err != nil {
		return nil, err
	}

	return pair, nil
}

// Refresh выпускает новый access токен по активному refresh токену.
// Сам refresh токен переиспользуется. Истёкший токен деактивируется
// на месте и даёт отдельный вид ошибки.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, clientSource string) (*TokenPair, error) {
	tokenDigest := s.digest.Encode(refreshToken)

	stored, err := s.tokenRepo.FindActiveByDigest(ctx, tokenDigest)
	if err != nil {
		return nil, err
	}

	if time.Now().After(stored.ExpiresAt) {
		if err := s.tokenRepo.Deactivate(ctx, tokenDigest); err != nil && logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{"error": err.Error()}).
				Warn("auth service: не удалось деактивировать истёкший токен")
		}
		return nil, apperror.ErrRefreshExpired
	}

	claims, err := s.tokens.Verify(refreshToken, clientSource)
	if err != nil {
		return nil, err
	}

	subject, _ := claims[ClaimSubject].(string)
	fingerprint, _ := claims[ClaimFingerprint].(string)

	accessToken, accessExp, err := s.tokens.IssueAccess(subject, fingerprint)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(time.Until(accessExp).Seconds()),
	}, nil
}

// Logout деактивирует refresh токен. Повторный выход по тому же токену -
// успех, ошибка возвращается только для неизвестного токена.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.Deactivate(ctx, s.digest.Encode(refreshToken))
}

// SendCode выпускает одноразовый код для пользователя с указанным
// телефоном и отправляет его по SMS.
func (s *AuthService) SendCode(ctx context.Context, phone string, purpose models.CodePurpose) error {
	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return err
	}
	return s.issueAndSendCode(ctx, user, purpose)
}

// ForgotPassword отправляет код восстановления пароля.
func (s *AuthService) ForgotPassword(ctx context.Context, phone string) error {
	return s.SendCode(ctx, phone, models.CodePurposePasswordRestore)
}

// VerifySMS подтверждает учётную запись: совпавший код переводит
// пользователя в ACTIVE и гасится.
func (s *AuthService) VerifySMS(ctx context.Context, phone, code string) (*models.User, error) {
	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	vc, err := s.codes.FindValid(ctx, user.ID, code, models.CodePurposeAccountConfirm)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "неверный или истёкший код")
		}
		return nil, err
	}

	updated, err := s.users.SetStatus(ctx, user.ID, models.AccountStatusActive)
	if err != nil {
		return nil, err
	}

	if err := s.codes.MarkUsed(ctx, vc.ID); err != nil {
		return nil, err
	}

	return updated, nil
}

// ResetPassword меняет пароль по коду восстановления. Статус учётной
// записи при этом не меняется.
func (s *AuthService) ResetPassword(ctx context.Context, phone, code, newPassword string) (*models.User, error) {
	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	vc, err := s.codes.FindValid(ctx, user.ID, code, models.CodePurposePasswordRestore)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "неверный или истёкший код")
		}
		return nil, err
	}

	if err := s.codes.MarkUsed(ctx, vc.ID); err != nil {
		return nil, err
	}

	return s.users.ResetPassword(ctx, user.ID, newPassword)
}

// CurrentUser возвращает пользователя по access токену, предварительно
// сверив отпечаток клиента.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken, clientSource string) (*models.User, error) {
	claims, err := s.tokens.Verify(accessToken, clientSource)
	if err != nil {
		return nil, err
	}

	userID, err := Subject(claims)
	if err != nil {
		return nil, err
	}

	return s.UserByID(ctx, userID)
}

// UserByID возвращает пользователя по идентификатору из уже проверенного
// токена. Отсутствие пользователя здесь означает невалидный токен.
func (s *AuthService) UserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "пользователь токена не найден")
		}
		return nil, err
	}

	return user, nil
}

// issueAndSendCode выпускает код и передаёт его шлюзу.
func (s *AuthService) issueAndSendCode(ctx context.Context, user *models.User, purpose models.CodePurpose) error {
	vc, err := s.codes.Create(ctx, user.ID, purpose)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, user.Phone, vc.Code)
}
