package usecase

import (
	"homestay-booking/internal/data/repository"
	"homestay-booking/pkg/cache"
	"homestay-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeePolicy computes the platform's cut of a gross payment. Injected so
// the rate table can change without touching the ledger code.
type FeePolicy func(gross int64, hostID uuid.UUID) int64

// PercentFeePolicy takes a flat percentage of the gross amount.
// Integer division truncates, so the remainder stays with the host.
func PercentFeePolicy(percent int64) FeePolicy {
	return func(gross int64, _ uuid.UUID) int64 {
		return gross * percent / 100
	}
}

type Service struct {
	Auth     AuthService
	Booking  BookingService
	Webhook  WebhookService
	Refund   RefundService
	Earning  EarningService
	Payout   PayoutService
	Settings SettingsService
}

func NewService(repo *repository.Repository, config *utils.Config, refCache *cache.ReferenceCache, log *zap.Logger) *Service {
	feePolicy := PercentFeePolicy(config.Fee.PlatformPercent)
	booking := NewBookingService(repo, feePolicy, refCache, log)

	return &Service{
		Auth:     NewAuthService(repo, config, log),
		Booking:  booking,
		Webhook:  NewWebhookService(repo, booking, log),
		Refund:   NewRefundService(repo, booking, log),
		Earning:  NewEarningService(repo, log),
		Payout:   NewPayoutService(repo, log),
		Settings: NewSettingsService(repo, refCache, log),
	}
}
