package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultCodeLength - длина кода подтверждения по умолчанию.
const DefaultCodeLength = 6

// CodeGenerator выдаёт случайные цифровые коды подтверждения.
// Источник - crypto/rand: коды уходят на границу доверия,
// предсказуемость здесь недопустима.
type CodeGenerator struct{}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{}
}

// Generate возвращает строку из length случайных цифр.
// При length <= 0 используется DefaultCodeLength.
func (g *CodeGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("security: не удалось сгенерировать код: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}

	return string(digits), nil
}
