package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprinter детерминированно сворачивает строку, идентифицирующую
// клиента (User-Agent), в односторонний дайджест. Дайджест попадает в клеймы
// токена и используется только для сравнения на равенство.
type Fingerprinter struct{}

func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{}
}

// Encode возвращает hex-представление SHA-256 от исходной строки.
func (f *Fingerprinter) Encode(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// TokenDigest сворачивает refresh токен перед сохранением в базу,
// чтобы прочитанная напрямую таблица не давала воспроизводимых токенов.
// Трансформация ключёвана собственным секретом и независима от
// Fingerprinter: у привязки к клиенту и у хранения токена разные ключи.
type TokenDigest struct {
	secret []byte
}

func NewTokenDigest(secret string) *TokenDigest {
	return &TokenDigest{secret: []byte(secret)}
}

// Encode возвращает hex-представление HMAC-SHA256 от токена.
func (d *TokenDigest) Encode(token string) string {
	mac := hmac.New(sha256.New, d.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
