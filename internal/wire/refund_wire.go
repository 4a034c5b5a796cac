package wire

import (
	"homestay-booking/internal/adaptor"
	"homestay-booking/internal/data/repository"
	"homestay-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRefund(
	r chi.Router,
	refundHandler *adaptor.RefundHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== CUSTOMER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/refund-tickets - Request a refund
		r.Post("/api/refund-tickets", refundHandler.CreateTicket)

		// GET /api/refund-tickets - Own refund requests
		r.Get("/api/refund-tickets", refundHandler.GetMyTickets)

		// GET /api/refund-tickets/{id} - Request detail
		r.Get("/api/refund-tickets/{id}", refundHandler.GetTicket)

		// PUT /api/refund-tickets/{id}/cancel - Withdraw a pending request
		r.Put("/api/refund-tickets/{id}/cancel", refundHandler.CancelTicket)
	})

	// ==================== HOST ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Host(log))

		// GET /api/host/refund-tickets - Refund requests against own properties
		r.Get("/api/host/refund-tickets", refundHandler.GetHostTickets)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/refund-tickets", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/refund-tickets - Full queue
		r.Get("/", refundHandler.GetAllTickets)

		// GET /api/admin/refund-tickets/statistics
		r.Get("/statistics", refundHandler.GetStatistics)

		// PUT /api/admin/refund-tickets/{id} - Approve or reject
		r.Put("/{id}", refundHandler.ProcessTicket)
	})
}
