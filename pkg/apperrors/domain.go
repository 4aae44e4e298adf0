package apperrors

import (
	"fmt"
	"net/http"
)

// Domain errors for the subscription/payment flow. The provisioning pipeline
// returns these so handlers only ever translate, never decide.

// --- Verification (no state mutated, no compensation needed) ---

// ErrPaymentNotPaid — the gateway reports a status other than "paid".
func ErrPaymentNotPaid(actualStatus string) *AppError {
	return New(
		CodePaymentNotPaid,
		"payment",
		fmt.Sprintf("Payment is not completed (status: %s)", actualStatus),
		http.StatusBadRequest,
	)
}

// ErrAmountMismatch — the captured amount differs from the plan price.
func ErrAmountMismatch(expected, actual int64) *AppError {
	return New(
		CodeAmountMismatch,
		"payment",
		"Payment amount does not match the plan price",
		http.StatusBadRequest,
	).WithDetails(map[string]int64{"expected": expected, "actual": actual})
}

// ErrMerchantUIDMismatch — the gateway record belongs to a different order.
var ErrMerchantUIDMismatch = New(
	CodeMerchantUIDMismatch,
	"payment",
	"merchant_uid does not match the gateway record",
	http.StatusBadRequest,
)

// --- Gateway transport (transient; nothing was persisted locally) ---

func ErrGatewayTimeout(err error) *AppError {
	return Wrap(err, CodeGatewayTimeout, "gateway",
		"Payment gateway did not respond in time", http.StatusGatewayTimeout)
}

func ErrGatewayUnavailable(err error) *AppError {
	return Wrap(err, CodeGatewayUnavailable, "gateway",
		"Payment gateway is unreachable", http.StatusServiceUnavailable)
}

// ErrCancelRejected — the gateway declined to cancel the charge (already
// refunded, out of the refund window, and so on). The subscription stays
// active; the user resolves this with the gateway, not by retrying.
func ErrCancelRejected(err error) *AppError {
	return Wrap(err, CodeCancelRejected, "payment",
		"Payment gateway rejected the cancellation", http.StatusBadRequest)
}

func ErrGatewayUpstream(err error, upstreamStatus int) *AppError {
	return Wrap(err, CodeGatewayUpstream, "gateway",
		"Payment gateway returned an error", http.StatusBadGateway).
		WithDetails(map[string]int{"upstream_status": upstreamStatus})
}

// --- Provisioning ---

// ErrConflictingActiveSubscription — the user already holds an active
// subscription under a different merchant_uid. Creating a second active row
// would break the single-active invariant, so the provisioner refuses.
var ErrConflictingActiveSubscription = New(
	CodeConflict,
	"subscription",
	"An active subscription already exists for this user",
	http.StatusConflict,
)

// ErrProvisioningFailed — local persistence failed after the gateway captured
// the charge. The refund advisory tells the operator whether the automatic
// compensation went through.
func ErrProvisioningFailed(err error, refunded bool) *AppError {
	msg := "Subscription provisioning failed; refund attempted, manual review needed"
	if refunded {
		msg = "Subscription provisioning failed; payment was refunded"
	}
	return Wrap(err, CodeProvisioningFailed, "subscription", msg, http.StatusInternalServerError).
		WithDetails(map[string]bool{"refunded": refunded})
}

// --- Subscription lifecycle ---

var ErrSubscriptionNotFound = New(
	CodeNotFound,
	"subscription",
	"Subscription not found",
	http.StatusNotFound,
)

var ErrSubscriptionAlreadyInactive = New(
	CodeInvalidOperation,
	"subscription",
	"Subscription is already inactive",
	http.StatusBadRequest,
)

var ErrPaymentHistoryNotFound = New(
	CodeNotFound,
	"payment",
	"Payment history not found",
	http.StatusNotFound,
)

// --- Auth (identity collaborator) ---

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)
