package service

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/glebfedorov911/wb-bidder-auth/internal/pkg/apperror"
	"github.com/glebfedorov911/wb-bidder-auth/internal/security"
)

// Имена клеймов токена.
const (
	ClaimSubject     = "sub"
	ClaimFingerprint = "fingerprint"
)

// TokenPair хранит пару access/refresh токенов.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenManager выпускает и проверяет подписанные токены. Один симметричный
// секрет и алгоритм на процесс; access и refresh различаются только сроком
// жизни. Токен привязан к клиенту через дайджест User-Agent в клеймах.
type TokenManager struct {
	secret      []byte
	method      jwt.SigningMethod
	accessTTL   time.Duration
	refreshTTL  time.Duration
	fingerprint *security.Fingerprinter
}

// NewTokenManager создаёт менеджер токенов. Алгоритм должен быть
// HMAC-семейства (HS256/HS384/HS512), это проверяет config.
func NewTokenManager(secret, algorithm string, accessTTL, refreshTTL time.Duration, fp *security.Fingerprinter) *TokenManager {
	return &TokenManager{
		secret:      []byte(secret),
		method:      jwt.GetSigningMethod(algorithm),
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		fingerprint: fp,
	}
}

// IssuePair выпускает access и refresh токены с общей базой клеймов
// (subject + отпечаток клиента) и независимыми сроками.
func (m *TokenManager) IssuePair(userID uuid.UUID, clientSource string) (*TokenPair, time.Time, time.Time, error) {
	digest := m.fingerprint.Encode(clientSource)

	accessToken, accessExp, err := m.issue(userID.String(), digest, m.accessTTL)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}

	refreshToken, refreshExp, err := m.issue(userID.String(), digest, m.refreshTTL)
	if err != nil {
		return nil, time.Time{}, time.Time{}, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, accessExp, refreshExp, nil
}

// IssueAccess выпускает новый access токен для уже проверенных клеймов.
// Используется при refresh, когда refresh токен остаётся прежним.
func (m *TokenManager) IssueAccess(subject, fingerprintDigest string) (string, time.Time, error) {
	return m.issue(subject, fingerprintDigest, m.accessTTL)
}

// issue формирует подписанный токен с exp = now + ttl.
func (m *TokenManager) issue(subject, fingerprintDigest string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		ClaimSubject:     subject,
		ClaimFingerprint: fingerprintDigest,
		"iat":            now.Unix(),
		"exp":            exp.Unix(),
	}

	token, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token manager: не удалось подписать токен: %w", err)
	}

	return token, exp, nil
}

// Decode проверяет подпись и структуру токена и возвращает клеймы.
// Битая подпись, чужой алгоритм и истёкший exp дают INVALID_TOKEN.
func (m *TokenManager) Decode(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("неожиданный алгоритм подписи %q", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidToken, "токен невалиден")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, apperror.ErrInvalidToken
	}

	return claims, nil
}

// Verify декодирует токен и сверяет отпечаток клиента из клеймов
// с отпечатком предъявителя. Несовпадение отпечатков - отдельный вид
// ошибки: украденный токен с другого клиента падает именно здесь,
// а не на проверке подписи.
func (m *TokenManager) Verify(token, clientSource string) (jwt.MapClaims, error) {
	claims, err := m.Decode(token)
	if err != nil {
		return nil, err
	}

	stored, ok := claims[ClaimFingerprint].(string)
	if !ok || stored == "" {
		return nil, apperror.ErrInvalidToken
	}

	presented := m.fingerprint.Encode(clientSource)
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return nil, apperror.ErrFingerprintMismatch
	}

	return claims, nil
}

// Subject извлекает идентификатор пользователя из клеймов.
func Subject(claims jwt.MapClaims) (uuid.UUID, error) {
	sub, ok := claims[ClaimSubject].(string)
	if !ok {
		return uuid.Nil, apperror.ErrInvalidToken
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, apperror.ErrInvalidToken
	}

	return userID, nil
}
