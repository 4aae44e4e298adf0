package dto

import (
	"time"

	"github.com/LocalStoryMap/Oz-Backand/internal/models"
)

// CreateSubscriptionRequest carries the client's claim about a completed
// gateway charge. No amount field: the server verifies the captured amount
// against the gateway record and the configured plan price, never against
// anything the client sends.
type CreateSubscriptionRequest struct {
	ImpUID      string `json:"imp_uid" validate:"required"`
	MerchantUID string `json:"merchant_uid" validate:"required"`
}

type SubscriptionResponse struct {
	SubscribeID string    `json:"subscribe_id"`
	ImpUID      string    `json:"imp_uid"`
	MerchantUID string    `json:"merchant_uid"`
	IsActive    bool      `json:"is_active"`
	StartAt     time.Time `json:"start_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewSubscriptionResponse(sub *models.Subscribe) SubscriptionResponse {
	return SubscriptionResponse{
		SubscribeID: sub.ID,
		ImpUID:      sub.ImpUID,
		MerchantUID: sub.MerchantUID,
		IsActive:    sub.IsActive,
		StartAt:     sub.StartAt,
		ExpiresAt:   sub.ExpiresAt,
		CreatedAt:   sub.CreatedAt,
	}
}

func NewSubscriptionListResponse(subs []models.Subscribe) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, NewSubscriptionResponse(&subs[i]))
	}
	return out
}
