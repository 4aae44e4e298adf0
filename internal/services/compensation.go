package services

import (
	"context"

	"github.com/LocalStoryMap/Oz-Backand/internal/gateway/iamport"
	"github.com/LocalStoryMap/Oz-Backand/internal/logger"
)

// Compensator undoes a gateway-side charge when local provisioning cannot
// complete. Best effort by contract: the original provisioning error is
// what the caller sees, so a failed refund is an operational alert, never a
// user-facing error. No retries here either.
type Compensator interface {
	// Refund reports whether the gateway confirmed the cancel.
	Refund(ctx context.Context, impUID string) bool
}

type gatewayCompensator struct {
	gateway iamport.Client
}

func NewCompensator(gateway iamport.Client) Compensator {
	return &gatewayCompensator{gateway: gateway}
}

func (c *gatewayCompensator) Refund(ctx context.Context, impUID string) bool {
	// merchant_uid is omitted on the compensation path: the charge is
	// identified by imp_uid alone and the local order row may not exist.
	if err := c.gateway.CancelPayment(ctx, impUID, ""); err != nil {
		logger.CtxError(ctx, "refund failed, manual review needed",
			"imp_uid", impUID,
			"error", err.Error(),
		)
		return false
	}

	logger.CtxInfo(ctx, "refund confirmed", "imp_uid", impUID)
	return true
}
