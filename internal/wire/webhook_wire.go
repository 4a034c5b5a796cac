package wire

import (
	"homestay-booking/internal/adaptor"
	"homestay-booking/internal/data/repository"
	"homestay-booking/pkg/middleware"
	"homestay-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireWebhook(
	r chi.Router,
	webhookHandler *adaptor.WebhookHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== BANK WEBHOOK ====================
	// The bank authenticates with a static API key, not a session, and
	// gets its own rate limit bucket per source IP.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(config.Webhook.RateLimit, config.Webhook.RateBurst, log))
		r.Use(middleware.APIKey(config.Webhook.APIKey, log))

		r.Post("/api/webhook/bank-transfer", webhookHandler.IngestBankTransfer)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/payments", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/payments/unmatched - manual review queue
		r.Get("/unmatched", webhookHandler.GetUnmatchedPayments)

		// POST /api/admin/payments/match - tie a payment to a booking
		r.Post("/match", webhookHandler.MatchPayment)
	})
}
