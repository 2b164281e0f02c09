package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher солит и хэширует пароли через bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher создаёт хэшер. При cost вне диапазона bcrypt
// используется bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash возвращает bcrypt-хэш пароля.
func (h *PasswordHasher) Hash(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return nil, fmt.Errorf("security: не удалось захешировать пароль: %w", err)
	}
	return hash, nil
}

// Verify проверяет пароль против сохранённого хэша. Сравнение внутри
// bcrypt константно по времени; битый хэш даёт false, а не панику.
func (h *PasswordHasher) Verify(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
