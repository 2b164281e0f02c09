package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxNameLength  = 100
	MinNameLength  = 1
	MaxEmailLocal  = 64
	MaxEmailDomain = 255
)

var (
	phoneRegex       = regexp.MustCompile(`^\+?\d{10,15}$`)
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._%+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidatePhone проверяет формат телефона: опциональный плюс и 10-15 цифр.
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("телефон обязателен")
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("некорректный формат телефона")
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > MaxEmailLocal {
		return fmt.Errorf("локальная часть email должна быть от 1 до %d символов", MaxEmailLocal)
	}
	if len(domainPart) == 0 || len(domainPart) > MaxEmailDomain {
		return fmt.Errorf("доменная часть email должна быть от 1 до %d символов", MaxEmailDomain)
	}

	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateName проверяет имя, фамилию или отчество.
func ValidateName(fieldName, value string) error {
	value = strings.TrimSpace(value)
	length := utf8.RuneCountInString(value)
	if length < MinNameLength {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	if length > MaxNameLength {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, MaxNameLength)
	}
	return nil
}
