package apperrors

// ErrorCode identifies an error class in API responses.
type ErrorCode string

const (
	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Generic business logic
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Payment verification (caller-correctable, always 400)
	CodePaymentNotPaid      ErrorCode = "PAYMENT_NOT_PAID"
	CodeAmountMismatch      ErrorCode = "AMOUNT_MISMATCH"
	CodeMerchantUIDMismatch ErrorCode = "MERCHANT_UID_MISMATCH"

	// Gateway transport (transient, retry the whole request)
	CodeGatewayTimeout     ErrorCode = "GATEWAY_TIMEOUT"
	CodeGatewayUnavailable ErrorCode = "GATEWAY_UNAVAILABLE"
	CodeGatewayUpstream    ErrorCode = "GATEWAY_UPSTREAM_ERROR"
	CodeCancelRejected     ErrorCode = "CANCEL_REJECTED"

	// Provisioning
	CodeProvisioningFailed ErrorCode = "PROVISIONING_FAILED"

	// Auth
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)
