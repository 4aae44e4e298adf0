package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/LocalStoryMap/Oz-Backand/internal/models"
)

var ErrPaymentHistoryNotFound = errors.New("payment history not found")

// PaymentHistoryRepository reads the payment ledger. Writes happen only
// inside SubscriptionRepository.ProvisionPaid; the single mutation allowed
// here is the soft-delete flag.
type PaymentHistoryRepository interface {
	FindByUser(ctx context.Context, userID string) ([]models.PaymentHistory, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*models.PaymentHistory, error)
	SoftDelete(ctx context.Context, id, userID string) error
}

type paymentHistoryRepository struct {
	db *gorm.DB
}

func NewPaymentHistoryRepository(db *gorm.DB) PaymentHistoryRepository {
	return &paymentHistoryRepository{db: db}
}

func (r *paymentHistoryRepository) FindByUser(ctx context.Context, userID string) ([]models.PaymentHistory, error) {
	var rows []models.PaymentHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND NOT is_deleted", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *paymentHistoryRepository) FindByIDForUser(ctx context.Context, id, userID string) (*models.PaymentHistory, error) {
	var row models.PaymentHistory
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ? AND NOT is_deleted", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentHistoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *paymentHistoryRepository) SoftDelete(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).Model(&models.PaymentHistory{}).
		Where("id = ? AND user_id = ? AND NOT is_deleted", id, userID).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPaymentHistoryNotFound
	}
	return nil
}
