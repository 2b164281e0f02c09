package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/glebfedorov911/wb-bidder-auth/internal/models"
	"github.com/glebfedorov911/wb-bidder-auth/internal/security"
)

// VerificationRepository описывает зависимости сервиса кодов от хранилища.
type VerificationRepository interface {
	Create(ctx context.Context, code *models.VerificationCode) error
	FindValid(ctx context.Context, userID uuid.UUID, code string, purpose models.CodePurpose, now time.Time) (*models.VerificationCode, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

// VerificationService управляет одноразовыми кодами: выпуск, поиск
// непогашенного кода и гашение.
type VerificationService struct {
	repo       VerificationRepository
	generator  *security.CodeGenerator
	codeTTL    time.Duration
	codeLength int
}

// NewVerificationService создаёт сервис кодов подтверждения.
func NewVerificationService(repo VerificationRepository, generator *security.CodeGenerator, codeTTL time.Duration, codeLength int) *VerificationService {
	if codeTTL <= 0 {
		codeTTL = 30 * time.Minute
	}
	return &VerificationService{
		repo:       repo,
		generator:  generator,
		codeTTL:    codeTTL,
		codeLength: codeLength,
	}
}

// Create выпускает код для пользователя. Пустое назначение означает
// подтверждение учётной записи.
func (s *VerificationService) Create(ctx context.Context, userID uuid.UUID, purpose models.CodePurpose) (*models.VerificationCode, error) {
	if purpose == "" {
		purpose = models.CodePurposeAccountConfirm
	}

	value, err := s.generator.Generate(s.codeLength)
	if err != nil {
		return nil, err
	}

	code := &models.VerificationCode{
		UserID:    userID,
		Code:      value,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.codeTTL),
	}

	if err := s.repo.Create(ctx, code); err != nil {
		return nil, err
	}

	return code, nil
}

// FindValid ищет непогашенный код по пользователю, значению и назначению.
func (s *VerificationService) FindValid(ctx context.Context, userID uuid.UUID, code string, purpose models.CodePurpose) (*models.VerificationCode, error) {
	return s.repo.FindValid(ctx, userID, code, purpose, time.Now())
}

// MarkUsed гасит код.
func (s *VerificationService) MarkUsed(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkUsed(ctx, id)
}
