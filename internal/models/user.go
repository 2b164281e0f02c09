package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus описывает статус учётной записи.
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "PENDING"
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusInactive  AccountStatus = "INACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Valid сообщает, известен ли статус.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusPending, AccountStatusActive, AccountStatusInactive, AccountStatusSuspended:
		return true
	}
	return false
}

// User описывает сущность пользователя.
// Пароль хранится только в виде bcrypt-хэша и не сериализуется наружу.
type User struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	Firstname    string        `db:"firstname" json:"firstname"`
	Lastname     string        `db:"lastname" json:"lastname"`
	Patronymic   *string       `db:"patronymic" json:"patronymic,omitempty"`
	Phone        string        `db:"phone" json:"phone"`
	Email        *string       `db:"email" json:"email,omitempty"`
	PasswordHash []byte        `db:"password_hash" json:"-"`
	Status       AccountStatus `db:"account_status" json:"account_status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}
