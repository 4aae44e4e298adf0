package services

import (
	"time"

	"github.com/LocalStoryMap/Oz-Backand/internal/gateway/iamport"
	"github.com/LocalStoryMap/Oz-Backand/pkg/apperrors"
)

// VerifiedPayment carries the attestation fields that survive verification
// and flow into the ledger. Nothing else from the gateway record is kept.
type VerifiedPayment struct {
	ImpUID        string
	MerchantUID   string
	Amount        int64
	PaymentMethod *string
	CardName      *string
	CardNumber    *string
	PaidAt        *time.Time
	ReceiptURL    *string
}

// ClaimedPayment is what the caller asserts about their order.
type ClaimedPayment struct {
	ImpUID      string
	MerchantUID string
}

// VerifyPayment is the single place the "what counts as paid" rules live.
// Pure: no I/O, no side effects. Checks run in order and the first failure
// wins: paid status, then amount against the configured plan price, then
// merchant_uid against the caller's claim.
func VerifyPayment(claimed ClaimedPayment, att *iamport.PaymentAttestation, expectedAmount int64) (*VerifiedPayment, error) {
	if att.Status != "paid" {
		return nil, apperrors.ErrPaymentNotPaid(att.Status)
	}
	if att.Amount != expectedAmount {
		return nil, apperrors.ErrAmountMismatch(expectedAmount, att.Amount)
	}
	if att.MerchantUID != claimed.MerchantUID {
		return nil, apperrors.ErrMerchantUIDMismatch
	}

	return &VerifiedPayment{
		ImpUID:        claimed.ImpUID,
		MerchantUID:   att.MerchantUID,
		Amount:        att.Amount,
		PaymentMethod: att.PayMethod,
		CardName:      att.CardName,
		CardNumber:    att.CardNumber,
		PaidAt:        att.PaidAtTime(),
		ReceiptURL:    att.ReceiptURL,
	}, nil
}
