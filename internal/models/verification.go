package models

import (
	"time"

	"github.com/google/uuid"
)

// CodePurpose описывает назначение одноразового кода.
type CodePurpose string

const (
	CodePurposeAccountConfirm  CodePurpose = "ACCOUNT_CONFIRM"
	CodePurposePasswordRestore CodePurpose = "PASSWORD_RESTORE"
)

// VerificationCode представляет одноразовый код подтверждения.
type VerificationCode struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	UserID    uuid.UUID   `db:"user_id" json:"user_id"`
	Code      string      `db:"code" json:"-"`
	Purpose   CodePurpose `db:"purpose" json:"purpose"`
	ExpiresAt time.Time   `db:"expires_at" json:"expires_at"`
	IsUsed    bool        `db:"is_used" json:"is_used"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}
