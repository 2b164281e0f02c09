package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// MinPasswordLength - минимальная длина пароля.
const MinPasswordLength = 8

// SpecialChars - допустимый набор специальных символов пароля.
const SpecialChars = `!@#$%^&*()-_+=`

// ValidatePassword проверяет пароль на соответствие политике:
// минимум 8 символов, хотя бы одна буква, цифра и специальный символ
// из фиксированного набора.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("пароль должен быть не менее %d символов", MinPasswordLength)
	}

	var (
		hasLetter  = false
		hasDigit   = false
		hasSpecial = false
	)

	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		case strings.ContainsRune(SpecialChars, char):
			hasSpecial = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("пароль должен содержать хотя бы одну букву")
	}
	if !hasDigit {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}
	if !hasSpecial {
		return fmt.Errorf("пароль должен содержать хотя бы один специальный символ из набора %s", SpecialChars)
	}

	return nil
}
