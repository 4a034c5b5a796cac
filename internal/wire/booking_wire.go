package wire

import (
	"homestay-booking/internal/adaptor"
	"homestay-booking/internal/data/repository"
	"homestay-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/bookings - Create a new booking
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings - Own booking history
		r.Get("/api/bookings", bookingHandler.GetUserBookings)

		// GET /api/bookings/code/{code} - Payment status lookup
		r.Get("/api/bookings/code/{code}", bookingHandler.GetBookingByCode)

		// PUT /api/bookings/{id}/cancel - Cancel an unpaid booking
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/bookings/{id}/payment-qr - Transfer instructions
		r.Get("/api/bookings/{id}/payment-qr", bookingHandler.GetPaymentQR)
	})

	// ==================== HOST ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Host(log))

		// PUT /api/host/bookings/{id}/check-in - Guest arrived
		r.Put("/api/host/bookings/{id}/check-in", bookingHandler.CheckIn)

		// PUT /api/host/bookings/{id}/check-out - Stay finished
		r.Put("/api/host/bookings/{id}/check-out", bookingHandler.CheckOut)
	})
}
