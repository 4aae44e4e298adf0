package services

import (
	"context"
	"errors"

	"github.com/LocalStoryMap/Oz-Backand/internal/models"
	"github.com/LocalStoryMap/Oz-Backand/internal/repositories"
	"github.com/LocalStoryMap/Oz-Backand/pkg/apperrors"
)

// PaymentHistoryService exposes a user's payment ledger. Rows are written
// only by provisioning; all this service can do is read and soft-delete.
type PaymentHistoryService interface {
	ListHistory(ctx context.Context, userID string) ([]models.PaymentHistory, error)
	GetHistory(ctx context.Context, userID, historyID string) (*models.PaymentHistory, error)
	DeleteHistory(ctx context.Context, userID, historyID string) error
}

type paymentHistoryService struct {
	historyRepo repositories.PaymentHistoryRepository
}

func NewPaymentHistoryService(historyRepo repositories.PaymentHistoryRepository) PaymentHistoryService {
	return &paymentHistoryService{historyRepo: historyRepo}
}

func (s *paymentHistoryService) ListHistory(ctx context.Context, userID string) ([]models.PaymentHistory, error) {
	return s.historyRepo.FindByUser(ctx, userID)
}

func (s *paymentHistoryService) GetHistory(ctx context.Context, userID, historyID string) (*models.PaymentHistory, error) {
	history, err := s.historyRepo.FindByIDForUser(ctx, historyID, userID)
	if errors.Is(err, repositories.ErrPaymentHistoryNotFound) {
		return nil, apperrors.ErrPaymentHistoryNotFound
	}
	return history, err
}

func (s *paymentHistoryService) DeleteHistory(ctx context.Context, userID, historyID string) error {
	err := s.historyRepo.SoftDelete(ctx, historyID, userID)
	if errors.Is(err, repositories.ErrPaymentHistoryNotFound) {
		return apperrors.ErrPaymentHistoryNotFound
	}
	return err
}
