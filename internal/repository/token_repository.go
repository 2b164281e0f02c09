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

// TokenRepository хранит выданные refresh токены. В базе лежит только
// односторонний дайджест токена, строки не удаляются: отозванный токен
// остаётся со сброшенным флагом "using" как след аудита.
type TokenRepository struct {
	db *sqlx.DB
}

// NewTokenRepository создаёт экземпляр репозитория.
func NewTokenRepository(db *sqlx.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create сохраняет дайджест выданного refresh токена.
func (r *TokenRepository) Create(ctx context.Context, userID uuid.UUID, tokenDigest string, expiresAt time.Time) (*models.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (user_id, token, expires_at, "using")
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, user_id, token, expires_at, "using", created_at
	`

	var token models.RefreshToken
	if err := r.db.GetContext(ctx, &token, query, userID, tokenDigest, expiresAt); err != nil {
		return nil, fmt.Errorf("token repository: create %w", err)
	}

	return &token, nil
}

// FindActiveByDigest возвращает активный токен по дайджесту.
// Неактивные и отсутствующие строки неразличимы для вызывающего.
func (r *TokenRepository) FindActiveByDigest(ctx context.Context, tokenDigest string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, "using", created_at
		FROM refresh_tokens
		WHERE token = $1 AND "using" = TRUE
	`

	var token models.RefreshToken
	if err := r.db.GetContext(ctx, &token, query, tokenDigest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrTokenNotFound
		}
		return nil, fmt.Errorf("token repository: find active %w", err)
	}

	return &token, nil
}

// Deactivate сбрасывает флаг "using". Условие "using" = TRUE делает
// обновление атомарным: из двух конкурирующих вызовов строку деактивирует
// ровно один. Повторная деактивация - успех без изменений, ошибка
// возвращается только если дайджест вовсе неизвестен.
func (r *TokenRepository) Deactivate(ctx context.Context, tokenDigest string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET "using" = FALSE WHERE token = $1 AND "using" = TRUE`,
		tokenDigest,
	)
	if err != nil {
		return fmt.Errorf("token repository: deactivate %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("token repository: deactivate rows affected %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE token = $1)`, tokenDigest,
	); err != nil {
		return fmt.Errorf("token repository: deactivate exists %w", err)
	}
	if !exists {
		return apperror.ErrTokenNotFound
	}

	return nil
}
