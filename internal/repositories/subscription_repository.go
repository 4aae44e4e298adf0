package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/LocalStoryMap/Oz-Backand/internal/models"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrDuplicateActiveSubscription is returned when the partial unique
	// index on active rows rejects an insert. Two concurrent provisioning
	// requests for the same order can both pass the idempotency check; the
	// loser lands here and is retried as "already active" by the service.
	ErrDuplicateActiveSubscription = errors.New("active subscription already exists")
)

type SubscriptionRepository interface {
	FindByUser(ctx context.Context, userID string) ([]models.Subscribe, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*models.Subscribe, error)
	FindActiveByMerchantUID(ctx context.Context, userID, merchantUID string) (*models.Subscribe, error)
	FindActive(ctx context.Context, userID string) (*models.Subscribe, error)

	// ProvisionPaid runs the provisioning unit of work atomically:
	// payment history insert, subscription insert, entitlement flag update.
	// A reader never observes one without the others.
	ProvisionPaid(ctx context.Context, history *models.PaymentHistory, sub *models.Subscribe) error

	// Cancel deactivates sub and re-derives the owner's entitlement flag in
	// one transaction.
	Cancel(ctx context.Context, sub *models.Subscribe) error

	// SweepExpired deactivates every active subscription past its expiry and
	// clears IsPaidUser for owners left with no active row. Returns the
	// number of subscriptions deactivated.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) FindByUser(ctx context.Context, userID string) ([]models.Subscribe, error) {
	var subs []models.Subscribe
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) FindByIDForUser(ctx context.Context, id, userID string) (*models.Subscribe, error) {
	var sub models.Subscribe
	err := r.db.WithContext(ctx).
		First(&sub, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindActiveByMerchantUID(ctx context.Context, userID, merchantUID string) (*models.Subscribe, error) {
	var sub models.Subscribe
	err := r.db.WithContext(ctx).
		First(&sub, "user_id = ? AND merchant_uid = ? AND is_active", userID, merchantUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindActive(ctx context.Context, userID string) (*models.Subscribe, error) {
	var sub models.Subscribe
	err := r.db.WithContext(ctx).
		First(&sub, "user_id = ? AND is_active", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) ProvisionPaid(ctx context.Context, history *models.PaymentHistory, sub *models.Subscribe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(history).Error; err != nil {
			return err
		}
		if err := tx.Create(sub).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateActiveSubscription
			}
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", sub.UserID).
			Update("is_paid_user", true).Error
	})
}

func (r *subscriptionRepository) Cancel(ctx context.Context, sub *models.Subscribe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Subscribe{}).
			Where("id = ? AND is_active", sub.ID).
			Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSubscriptionNotFound
		}
		sub.IsActive = false

		// Re-derive rather than blindly clear: the user could hold another
		// active row across plan changes.
		return tx.Model(&models.User{}).
			Where("id = ? AND NOT EXISTS (SELECT 1 FROM subscribes WHERE subscribes.user_id = users.id AND subscribes.is_active)", sub.UserID).
			Update("is_paid_user", false).Error
	})
}

func (r *subscriptionRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userIDs []string
		if err := tx.Model(&models.Subscribe{}).
			Distinct("user_id").
			Where("is_active AND expires_at < ?", now).
			Pluck("user_id", &userIDs).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}

		res := tx.Model(&models.Subscribe{}).
			Where("is_active AND expires_at < ?", now).
			Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected

		return tx.Model(&models.User{}).
			Where("id IN ? AND NOT EXISTS (SELECT 1 FROM subscribes WHERE subscribes.user_id = users.id AND subscribes.is_active)", userIDs).
			Update("is_paid_user", false).Error
	})
	return affected, err
}
