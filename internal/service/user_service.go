package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/glebfedorov911/wb-bidder-auth/internal/models"
	"github.com/glebfedorov911/wb-bidder-auth/internal/pkg/apperror"
	"github.com/glebfedorov911/wb-bidder-auth/internal/security"
	"github.com/glebfedorov911/wb-bidder-auth/internal/validation"
)

// UserRepository описывает зависимости UserService от слоя хранилища.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash []byte) (*models.User, error)
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Firstname  string
	Lastname   string
	Patronymic *string
	Phone      string
	Email      *string
	Password   string
}

// UserService инкапсулирует учётные записи: регистрацию, проверку
// учётных данных, смену статуса и пароля.
type UserService struct {
	repo   UserRepository
	hasher *security.PasswordHasher
}

// NewUserService создаёт сервис учётных записей.
func NewUserService(repo UserRepository, hasher *security.PasswordHasher) *UserService {
	return &UserService{repo: repo, hasher: hasher}
}

// Register валидирует входные данные, хэширует пароль и создаёт
// пользователя со статусом PENDING. Уникальность телефона и email
// обеспечивает база, репозиторий переводит нарушение в конфликт.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateName("имя", in.Firstname); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateName("фамилия", in.Lastname); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.Email != nil && *in.Email != "" {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Patronymic:   in.Patronymic,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: hash,
		Status:       models.AccountStatusPending,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate проверяет телефон и пароль. Наружу уходит одна и та же
// ошибка независимо от того, что именно не совпало.
func (s *UserService) Authenticate(ctx context.Context, phone, password string) (*models.User, error) {
	user, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	return user, nil
}

// GetByPhone возвращает пользователя по телефону.
func (s *UserService) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.repo.GetByPhone(ctx, phone)
}

// GetByID возвращает пользователя по идентификатору.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// SetStatus переводит учётную запись в новый статус.
func (s *UserService) SetStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) (*models.User, error) {
	if !status.Valid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный статус учётной записи")
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// ResetPassword перехэширует и сохраняет новый пароль.
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) (*models.User, error) {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	return s.repo.UpdatePassword(ctx, id, hash)
}
