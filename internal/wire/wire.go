package wire

import (
	"net/http"

	"homestay-booking/internal/adaptor"
	"homestay-booking/internal/data/repository"
	"homestay-booking/internal/usecase"
	"homestay-booking/pkg/cache"
	"homestay-booking/pkg/middleware"
	"homestay-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring assembles services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, refCache *cache.ReferenceCache, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, refCache, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth, repo, logger)
	wireWebhook(r, handler.Webhook, repo, config, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wireRefund(r, handler.Refund, repo, logger)
	wireEarning(r, handler.Earning, repo, logger)
	wirePayout(r, handler.Payout, repo, logger)
	wireSettings(r, handler.Settings, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
