package common

import (
	"errors"

	"github.com/lib/pq"
)

// Код ошибки PostgreSQL для нарушения уникальности.
const uniqueViolationCode = "23505"

// IsUniqueViolation сообщает, вызвана ли ошибка нарушением уникального
// ограничения. Конкурирующие вставки с одинаковым телефоном сериализует
// база, приложение лишь переводит нарушение в конфликт.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
