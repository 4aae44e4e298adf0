package services

import (
	"testing"
	"time"

	"github.com/LocalStoryMap/Oz-Backand/internal/gateway/iamport"
	"github.com/LocalStoryMap/Oz-Backand/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func paidAttestation() *iamport.PaymentAttestation {
	return &iamport.PaymentAttestation{
		ImpUID:      "imp_123",
		MerchantUID: "order_123",
		Status:      "paid",
		Amount:      4000,
		PayMethod:   strPtr("card"),
		CardName:    strPtr("Shinhan"),
		PaidAt:      1735689600,
	}
}

func TestVerifyPayment_Success(t *testing.T) {
	t.Parallel()

	claimed := ClaimedPayment{ImpUID: "imp_123", MerchantUID: "order_123"}
	verified, err := VerifyPayment(claimed, paidAttestation(), 4000)

	require.NoError(t, err)
	assert.Equal(t, "imp_123", verified.ImpUID)
	assert.Equal(t, "order_123", verified.MerchantUID)
	assert.Equal(t, int64(4000), verified.Amount)
	require.NotNil(t, verified.PaidAt)
	assert.Equal(t, time.Unix(1735689600, 0).UTC(), verified.PaidAt.UTC())
}

func TestVerifyPayment_NotPaid(t *testing.T) {
	t.Parallel()

	for _, status := range []string{"ready", "cancelled", "failed"} {
		att := paidAttestation()
		att.Status = status

		_, err := VerifyPayment(ClaimedPayment{ImpUID: "imp_123", MerchantUID: "order_123"}, att, 4000)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr, "status %s must fail", status)
		assert.Equal(t, apperrors.CodePaymentNotPaid, appErr.Code)
		assert.Equal(t, 400, appErr.HTTPCode)
		assert.Contains(t, appErr.Message, status)
	}
}

func TestVerifyPayment_AmountMismatch(t *testing.T) {
	t.Parallel()

	att := paidAttestation()
	att.Amount = 3999

	_, err := VerifyPayment(ClaimedPayment{ImpUID: "imp_123", MerchantUID: "order_123"}, att, 4000)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeAmountMismatch, appErr.Code)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestVerifyPayment_MerchantUIDMismatch(t *testing.T) {
	t.Parallel()

	_, err := VerifyPayment(ClaimedPayment{ImpUID: "imp_123", MerchantUID: "order_other"}, paidAttestation(), 4000)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeMerchantUIDMismatch, appErr.Code)
}

// Status is checked before amount: an unpaid attestation with a wrong
// amount reports not-paid, not a mismatch.
func TestVerifyPayment_StatusCheckedFirst(t *testing.T) {
	t.Parallel()

	att := paidAttestation()
	att.Status = "ready"
	att.Amount = 1
	att.MerchantUID = "order_other"

	_, err := VerifyPayment(ClaimedPayment{ImpUID: "imp_123", MerchantUID: "order_123"}, att, 4000)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodePaymentNotPaid, appErr.Code)
}

func TestVerifyPayment_AmountCheckedBeforeMerchant(t *testing.T) {
	t.Parallel()

	att := paidAttestation()
	att.Amount = 1
	att.MerchantUID = "order_other"

	_, err := VerifyPayment(ClaimedPayment{ImpUID: "imp_123", MerchantUID: "order_123"}, att, 4000)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeAmountMismatch, appErr.Code)
}
