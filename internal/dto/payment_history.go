package dto

import (
	"time"

	"github.com/LocalStoryMap/Oz-Backand/internal/models"
)

type PaymentHistoryResponse struct {
	ID            string     `json:"id"`
	ImpUID        string     `json:"imp_uid"`
	MerchantUID   string     `json:"merchant_uid"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	CardName      *string    `json:"card_name,omitempty"`
	CardNumber    *string    `json:"card_number,omitempty"`
	ReceiptURL    *string    `json:"receipt_url,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewPaymentHistoryResponse(h *models.PaymentHistory) PaymentHistoryResponse {
	return PaymentHistoryResponse{
		ID:            h.ID,
		ImpUID:        h.ImpUID,
		MerchantUID:   h.MerchantUID,
		Amount:        h.Amount,
		Status:        string(h.Status),
		PaymentMethod: h.PaymentMethod,
		CardName:      h.CardName,
		CardNumber:    h.CardNumber,
		ReceiptURL:    h.ReceiptURL,
		PaidAt:        h.PaidAt,
		CreatedAt:     h.CreatedAt,
	}
}

func NewPaymentHistoryListResponse(histories []models.PaymentHistory) []PaymentHistoryResponse {
	out := make([]PaymentHistoryResponse, 0, len(histories))
	for i := range histories {
		out = append(out, NewPaymentHistoryResponse(&histories[i]))
	}
	return out
}
