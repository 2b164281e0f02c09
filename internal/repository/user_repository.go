package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/glebfedorov911/wb-bidder-auth/internal/models"
	"github.com/glebfedorov911/wb-bidder-auth/internal/pkg/apperror"
	"github.com/glebfedorov911/wb-bidder-auth/internal/repository/common"
)

// UserRepository отвечает за работу с таблицей users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт пользователя со статусом PENDING. Нарушение уникальности
// телефона или email переводится в конфликт.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (firstname, lastname, patronymic, phone, email, password_hash, account_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Firstname, user.Lastname, user.Patronymic,
		user.Phone, user.Email, user.PasswordHash, user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if common.IsUniqueViolation(err) {
			return apperror.Wrap(err, apperror.ErrCodeConflict, "телефон или email уже зарегистрирован")
		}
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByPhone возвращает пользователя по телефону.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "phone", phone, apperror.ErrUserNotFound)
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id, apperror.ErrUserNotFound)
}

// UpdateStatus меняет статус учётной записи.
func (r *UserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) (*models.User, error) {
	query := `
		UPDATE users
		SET account_status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, firstname, lastname, patronymic, phone, email, password_hash, account_status, created_at, updated_at
	`

	var user models.User
	if err := r.db.GetContext(ctx, &user, query, status, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: update status %w", err)
	}

	return &user, nil
}

// UpdatePassword заменяет хэш пароля.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash []byte) (*models.User, error) {
	query := `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, firstname, lastname, patronymic, phone, email, password_hash, account_status, created_at, updated_at
	`

	var user models.User
	if err := r.db.GetContext(ctx, &user, query, passwordHash, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: update password %w", err)
	}

	return &user, nil
}
