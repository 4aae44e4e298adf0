package iamport

import "time"

// PaymentAttestation is the gateway's record of one payment transaction.
// It is owned by the gateway and never persisted verbatim; the verifier
// decides which fields survive into local state.
type PaymentAttestation struct {
	ImpUID      string  `json:"imp_uid"`
	MerchantUID string  `json:"merchant_uid"`
	Status      string  `json:"status"`
	Amount      int64   `json:"amount"`
	PayMethod   *string `json:"pay_method"`
	CardName    *string `json:"card_name"`
	CardNumber  *string `json:"card_number"`
	PaidAt      int64   `json:"paid_at"` // unix seconds, 0 when unpaid
	ReceiptURL  *string `json:"receipt_url"`
}

// PaidAtTime converts the wire timestamp, nil when the gateway sent none.
func (a *PaymentAttestation) PaidAtTime() *time.Time {
	if a.PaidAt == 0 {
		return nil
	}
	t := time.Unix(a.PaidAt, 0).UTC()
	return &t
}
