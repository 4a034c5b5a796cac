package adaptor

import (
	"net/http"
	"strings"

	"homestay-booking/internal/usecase"
	"homestay-booking/pkg/apperr"
	"homestay-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Booking  *BookingHandler
	Webhook  *WebhookHandler
	Refund   *RefundHandler
	Earning  *EarningHandler
	Payout   *PayoutHandler
	Settings *SettingsHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Webhook:  NewWebhookHandler(service.Webhook, log),
		Refund:   NewRefundHandler(service.Refund, log),
		Earning:  NewEarningHandler(service.Earning, log),
		Payout:   NewPayoutHandler(service.Payout, log),
		Settings: NewSettingsHandler(service.Settings, log),
	}
}

// handleServiceError maps the service error taxonomy onto HTTP responses.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case apperr.KindUnauthorized:
		log.Warn(operation+" unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, errMsg)

	case apperr.KindForbidden:
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case apperr.KindNotFound:
		log.Warn(operation+" target missing", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case apperr.KindConflict:
		log.Warn(operation+" conflicted", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case apperr.KindExternal:
		log.Error(operation+" upstream failure", zap.Error(err))
		utils.ResponseBadGateway(w, "Upstream dependency failed")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// paginationFromQuery reads page/per_page with sane defaults.
func paginationFromQuery(r *http.Request) (page, perPage int) {
	query := r.URL.Query()
	return utils.ParseInt(query.Get("page"), 1), utils.ParseInt(query.Get("per_page"), 10)
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
