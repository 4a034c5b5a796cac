package wire

import (
	"homestay-booking/internal/adaptor"
	"homestay-booking/internal/data/repository"
	"homestay-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireEarning(
	r chi.Router,
	earningHandler *adaptor.EarningHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== HOST ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Host(log))

		// GET /api/host/earnings - Own earnings ledger
		r.Get("/api/host/earnings", earningHandler.GetMyEarnings)

		// GET /api/host/earnings/summary - Balance per status
		r.Get("/api/host/earnings/summary", earningHandler.GetMySummary)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/earnings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/earnings?status= - Review queue
		r.Get("/", earningHandler.GetByStatus)

		// PUT /api/admin/earnings/{id}/approve
		r.Put("/{id}/approve", earningHandler.Approve)

		// PUT /api/admin/earnings/{id}/reject
		r.Put("/{id}/reject", earningHandler.Reject)
	})
}
