package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LocalStoryMap/Oz-Backand/internal/config"
	"github.com/LocalStoryMap/Oz-Backand/internal/email"
	"github.com/LocalStoryMap/Oz-Backand/internal/gateway/iamport"
	"github.com/LocalStoryMap/Oz-Backand/internal/logger"
	"github.com/LocalStoryMap/Oz-Backand/internal/models"
	"github.com/LocalStoryMap/Oz-Backand/internal/repositories"
	"github.com/LocalStoryMap/Oz-Backand/pkg/apperrors"
)

// SubscriptionService turns a verified gateway charge into durable
// entitlement, exactly once per charge, and walks it back on cancellation.
type SubscriptionService interface {
	ListSubscriptions(ctx context.Context, userID string) ([]models.Subscribe, error)
	GetSubscription(ctx context.Context, userID, subscriptionID string) (*models.Subscribe, error)
	Provision(ctx context.Context, userID, impUID, merchantUID string) (*models.Subscribe, error)
	Cancel(ctx context.Context, userID, subscriptionID string) error
}

type subscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	gateway          iamport.Client
	compensator      Compensator
	mailer           email.Sender

	planPrice    int64
	planDuration time.Duration
	now          func() time.Time
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	gateway iamport.Client,
	compensator Compensator,
	mailer email.Sender,
	cfg *config.Config,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		gateway:          gateway,
		compensator:      compensator,
		mailer:           mailer,
		planPrice:        cfg.Plan.Price,
		planDuration:     time.Duration(cfg.Plan.DurationDays) * 24 * time.Hour,
		now:              time.Now,
	}
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, userID string) ([]models.Subscribe, error) {
	return s.subscriptionRepo.FindByUser(ctx, userID)
}

func (s *subscriptionService) GetSubscription(ctx context.Context, userID, subscriptionID string) (*models.Subscribe, error) {
	sub, err := s.subscriptionRepo.FindByIDForUser(ctx, subscriptionID, userID)
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, apperrors.ErrSubscriptionNotFound
	}
	return sub, err
}

// Provision runs the full pipeline: idempotency check, gateway fetch +
// verification, then the atomic unit of work. Until the unit of work starts
// nothing has been persisted, so every early return needs no cleanup. Once
// the gateway has confirmed a captured charge, a persistence failure
// triggers a compensating refund before the error surfaces.
func (s *subscriptionService) Provision(ctx context.Context, userID, impUID, merchantUID string) (*models.Subscribe, error) {
	// 1. Idempotency: a retried request for an order we already provisioned
	// returns the existing subscription untouched.
	existing, err := s.subscriptionRepo.FindActiveByMerchantUID(ctx, userID, merchantUID)
	if err == nil {
		logger.CtxInfo(ctx, "provision replay, returning existing subscription",
			"merchant_uid", merchantUID, "subscribe_id", existing.ID)
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, err
	}

	// An active subscription under a different merchant_uid means a second
	// active row would violate the single-active invariant. Refuse before
	// touching the gateway; no charge was verified, so nothing to refund.
	if _, err := s.subscriptionRepo.FindActive(ctx, userID); err == nil {
		return nil, apperrors.ErrConflictingActiveSubscription
	} else if !errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, err
	}

	// 2. Verify against the gateway's record.
	att, err := s.gateway.GetPayment(ctx, impUID)
	if err != nil {
		return nil, mapGatewayError(err)
	}

	verified, err := VerifyPayment(ClaimedPayment{ImpUID: impUID, MerchantUID: merchantUID}, att, s.planPrice)
	if err != nil {
		logger.CtxWarn(ctx, "payment verification failed",
			"imp_uid", impUID, "merchant_uid", merchantUID, "error", err.Error())
		return nil, err
	}

	// 3. Atomic unit of work: ledger row, subscription row, entitlement.
	now := s.now()
	history := &models.PaymentHistory{
		UserID:        userID,
		ImpUID:        verified.ImpUID,
		MerchantUID:   verified.MerchantUID,
		Amount:        verified.Amount,
		Status:        models.PaymentStatusPaid,
		PaymentMethod: verified.PaymentMethod,
		CardName:      verified.CardName,
		CardNumber:    verified.CardNumber,
		PaidAt:        verified.PaidAt,
		ReceiptURL:    verified.ReceiptURL,
	}
	sub := &models.Subscribe{
		UserID:      userID,
		ImpUID:      verified.ImpUID,
		MerchantUID: verified.MerchantUID,
		IsActive:    true,
		StartAt:     now,
		ExpiresAt:   now.Add(s.planDuration),
	}

	if err := s.subscriptionRepo.ProvisionPaid(ctx, history, sub); err != nil {
		if errors.Is(err, repositories.ErrDuplicateActiveSubscription) {
			// Lost a check-then-act race with a concurrent request for the
			// same order. The winner already provisioned; hand its row back.
			if winner, ferr := s.subscriptionRepo.FindActiveByMerchantUID(ctx, userID, merchantUID); ferr == nil {
				return winner, nil
			}
			// The winning row belongs to a different order, so this charge
			// bought nothing. It was already captured at step 2; refund it
			// before refusing.
			logger.CtxWarn(ctx, "conflicting active subscription after captured charge",
				"imp_uid", impUID, "merchant_uid", merchantUID)
			s.compensator.Refund(ctx, impUID)
			return nil, apperrors.ErrConflictingActiveSubscription
		}

		// 4. The gateway captured the money but local persistence failed.
		logger.CtxError(ctx, "provisioning persistence failed after captured charge",
			"imp_uid", impUID, "error", err.Error())
		refunded := s.compensator.Refund(ctx, impUID)
		return nil, apperrors.ErrProvisioningFailed(err, refunded)
	}

	s.sendReceipt(ctx, userID, history)

	logger.CtxInfo(ctx, "subscription provisioned",
		"subscribe_id", sub.ID, "merchant_uid", merchantUID, "expires_at", sub.ExpiresAt)
	return sub, nil
}

// Cancel deactivates a subscription. The gateway cancel must succeed first:
// a subscription is never marked inactive while the user is still billed.
func (s *subscriptionService) Cancel(ctx context.Context, userID, subscriptionID string) error {
	sub, err := s.subscriptionRepo.FindByIDForUser(ctx, subscriptionID, userID)
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return apperrors.ErrSubscriptionNotFound
	}
	if err != nil {
		return err
	}
	if !sub.IsActive {
		return apperrors.ErrSubscriptionAlreadyInactive
	}

	if err := s.gateway.CancelPayment(ctx, sub.ImpUID, sub.MerchantUID); err != nil {
		var gwErr *iamport.GatewayError
		if errors.As(err, &gwErr) && gwErr.Kind == iamport.KindUpstream {
			// The gateway answered and said no. Not a transient fault.
			return apperrors.ErrCancelRejected(err)
		}
		return mapGatewayError(err)
	}

	// Best effort: a standing authorization left behind bills nobody once
	// the charge itself is cancelled, so a failure here only gets logged.
	if sub.CustomerUID != nil {
		if err := s.gateway.UnscheduleRecurring(ctx, *sub.CustomerUID); err != nil {
			logger.CtxWarn(ctx, "unschedule recurring failed",
				"customer_uid", *sub.CustomerUID, "error", err.Error())
		}
	}

	if err := s.subscriptionRepo.Cancel(ctx, sub); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "subscription cancelled", "subscribe_id", sub.ID)
	return nil
}

func (s *subscriptionService) sendReceipt(ctx context.Context, userID string, history *models.PaymentHistory) {
	if s.mailer == nil {
		return
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.CtxWarn(ctx, "receipt email skipped, user lookup failed", "error", err.Error())
		return
	}

	body := fmt.Sprintf("Your subscription payment of %d KRW was received (order %s).",
		history.Amount, history.MerchantUID)
	if history.ReceiptURL != nil {
		body += " Receipt: " + *history.ReceiptURL
	}
	if err := s.mailer.Send(user.Email, "Payment received", body); err != nil {
		logger.CtxWarn(ctx, "receipt email failed", "email", user.Email, "error", err.Error())
	}
}

// mapGatewayError translates transport failures into the API taxonomy.
// Nothing local was mutated before a gateway failure, so all of these are
// safe for the caller to retry wholesale.
func mapGatewayError(err error) error {
	var gwErr *iamport.GatewayError
	if !errors.As(err, &gwErr) {
		return apperrors.InternalError(err)
	}

	switch gwErr.Kind {
	case iamport.KindTimeout:
		return apperrors.ErrGatewayTimeout(err)
	case iamport.KindUnavailable:
		return apperrors.ErrGatewayUnavailable(err)
	default:
		return apperrors.ErrGatewayUpstream(err, gwErr.StatusCode)
	}
}
