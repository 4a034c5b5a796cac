package wire

import (
	"homestay-booking/internal/adaptor"
	"homestay-booking/internal/data/repository"
	"homestay-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSettings(
	r chi.Router,
	settingsHandler *adaptor.SettingsHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// GET /api/bank-account - Platform receiving account
		r.Get("/api/bank-account", settingsHandler.GetBankAccount)
	})

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// PUT /api/admin/bank-account - Replace the receiving account
		r.Put("/api/admin/bank-account", settingsHandler.UpdateBankAccount)
	})
}
