package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken представляет выданный refresh токен.
// В колонке token лежит одностороннее HMAC-представление, сам токен
// в базе не хранится. Флаг using после сброса в FALSE обратно не взводится.
type RefreshToken struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Using     bool      `db:"using" json:"using"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
