package adaptor

import (
	"encoding/json"
	"net/http"

	"homestay-booking/internal/dto/request"
	"homestay-booking/internal/usecase"
	"homestay-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PayoutHandler struct {
	service usecase.PayoutService
	log     *zap.Logger
}

func NewPayoutHandler(service usecase.PayoutService, log *zap.Logger) *PayoutHandler {
	return &PayoutHandler{
		service: service,
		log:     log.With(zap.String("handler", "payout")),
	}
}

// GetMyPayouts handles GET /api/host/payouts (host only)
func (h *PayoutHandler) GetMyPayouts(w http.ResponseWriter, r *http.Request) {
	hostID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	page, perPage := paginationFromQuery(r)
	payouts, err := h.service.GetHostPayouts(r.Context(), hostID, request.PaginatedRequest{Page: page, PerPage: perPage})
	if err != nil {
		handleServiceError(h.log, w, err, "list host payouts")
		return
	}

	utils.ResponseSuccess(w, "success", payouts)
}

// GetMyPayout handles GET /api/host/payouts/{id} (host only)
func (h *PayoutHandler) GetMyPayout(w http.ResponseWriter, r *http.Request) {
	hostID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	payoutID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid payout ID", nil)
		return
	}

	payout, err := h.service.GetHostPayout(r.Context(), hostID, payoutID)
	if err != nil {
		handleServiceError(h.log, w, err, "get host payout")
		return
	}

	utils.ResponseSuccess(w, "success", payout)
}

// ==================== ADMIN METHODS ====================

// Create handles POST /api/admin/payouts (admin only)
func (h *PayoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreatePayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payout, err := h.service.Create(r.Context(), adminID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create payout")
		return
	}

	utils.ResponseCreated(w, "success", payout)
}

// GetAll handles GET /api/admin/payouts (admin only)
func (h *PayoutHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, perPage := paginationFromQuery(r)
	payouts, err := h.service.GetAll(r.Context(), request.PaginatedRequest{Page: page, PerPage: perPage})
	if err != nil {
		handleServiceError(h.log, w, err, "list payouts")
		return
	}

	utils.ResponseSuccess(w, "success", payouts)
}

// GetByID handles GET /api/admin/payouts/{id} (admin only)
func (h *PayoutHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	payoutID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid payout ID", nil)
		return
	}

	payout, err := h.service.GetByID(r.Context(), payoutID)
	if err != nil {
		handleServiceError(h.log, w, err, "get payout")
		return
	}

	utils.ResponseSuccess(w, "success", payout)
}

// Process handles PUT /api/admin/payouts/{id}/process (admin only)
func (h *PayoutHandler) Process(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	payoutID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid payout ID", nil)
		return
	}

	payout, err := h.service.Process(r.Context(), adminID, payoutID)
	if err != nil {
		handleServiceError(h.log, w, err, "process payout")
		return
	}

	utils.ResponseSuccess(w, "success", payout)
}

// Complete handles PUT /api/admin/payouts/{id}/complete (admin only)
func (h *PayoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	payoutID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid payout ID", nil)
		return
	}

	var req request.CompletePayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payout, err := h.service.Complete(r.Context(), adminID, payoutID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "complete payout")
		return
	}

	utils.ResponseSuccess(w, "success", payout)
}

// Cancel handles PUT /api/admin/payouts/{id}/cancel (admin only)
func (h *PayoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	payoutID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid payout ID", nil)
		return
	}

	if err := h.service.Cancel(r.Context(), adminID, payoutID); err != nil {
		handleServiceError(h.log, w, err, "cancel payout")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetStatistics handles GET /api/admin/payouts/statistics (admin only)
func (h *PayoutHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "get payout statistics")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
