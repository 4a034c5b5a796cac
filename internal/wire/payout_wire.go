package wire

import (
	"homestay-booking/internal/adaptor"
	"homestay-booking/internal/data/repository"
	"homestay-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayout(
	r chi.Router,
	payoutHandler *adaptor.PayoutHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== HOST ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Host(log))

		// GET /api/host/payouts - Own payout history
		r.Get("/api/host/payouts", payoutHandler.GetMyPayouts)

		// GET /api/host/payouts/{id} - Own batch with its earnings
		r.Get("/api/host/payouts/{id}", payoutHandler.GetMyPayout)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/payouts", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// POST /api/admin/payouts - Open a payout batch
		r.Post("/", payoutHandler.Create)

		// GET /api/admin/payouts - All batches
		r.Get("/", payoutHandler.GetAll)

		// GET /api/admin/payouts/statistics
		r.Get("/statistics", payoutHandler.GetStatistics)

		// GET /api/admin/payouts/{id} - Batch with its earnings
		r.Get("/{id}", payoutHandler.GetByID)

		// PUT /api/admin/payouts/{id}/process - Hand to the bank
		r.Put("/{id}/process", payoutHandler.Process)

		// PUT /api/admin/payouts/{id}/complete - Record the bank reference
		r.Put("/{id}/complete", payoutHandler.Complete)

		// PUT /api/admin/payouts/{id}/cancel - Abort and release earnings
		r.Put("/{id}/cancel", payoutHandler.Cancel)
	})
}
