package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/glebfedorov911/wb-bidder-auth/internal/models"
	"github.com/glebfedorov911/wb-bidder-auth/internal/pkg/apperror"
)

// VerificationRepository отвечает за таблицу verification_codes.
type VerificationRepository struct {
	db *sqlx.DB
}

// NewVerificationRepository создаёт экземпляр репозитория.
func NewVerificationRepository(db *sqlx.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create сохраняет новый одноразовый код.
func (r *VerificationRepository) Create(ctx context.Context, code *models.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (user_id, code, purpose, expires_at, is_used)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		code.UserID, code.Code, code.Purpose, code.ExpiresAt,
	).Scan(&code.ID, &code.CreatedAt); err != nil {
		return fmt.Errorf("verification repository: create %w", err)
	}

	return nil
}

// FindValid ищет непогашенный код по всем четырём предикатам: пользователь,
// значение кода, назначение и срок. Неверный, чужой, истёкший и уже
// использованный коды для вызывающего неразличимы.
func (r *VerificationRepository) FindValid(ctx context.Context, userID uuid.UUID, code string, purpose models.CodePurpose, now time.Time) (*models.VerificationCode, error) {
	query := `
		SELECT id, user_id, code, purpose, expires_at, is_used, created_at
		FROM verification_codes
		WHERE user_id = $1 AND code = $2 AND purpose = $3 AND expires_at > $4 AND is_used = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var vc models.VerificationCode
	if err := r.db.GetContext(ctx, &vc, query, userID, code, purpose, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrCodeNotFoundErr
		}
		return nil, fmt.Errorf("verification repository: find valid %w", err)
	}

	return &vc, nil
}

// MarkUsed гасит код. Повторный вызов перезаписывает тот же флаг
// и остаётся успехом.
func (r *VerificationRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE verification_codes SET is_used = TRUE WHERE id = $1`, id,
	); err != nil {
		return fmt.Errorf("verification repository: mark used %w", err)
	}

	return nil
}
