package adaptor

import (
	"net/http"

	"homestay-booking/internal/dto/request"
	"homestay-booking/internal/usecase"
	"homestay-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EarningHandler struct {
	service usecase.EarningService
	log     *zap.Logger
}

func NewEarningHandler(service usecase.EarningService, log *zap.Logger) *EarningHandler {
	return &EarningHandler{
		service: service,
		log:     log.With(zap.String("handler", "earning")),
	}
}

// GetMyEarnings handles GET /api/host/earnings (host only)
func (h *EarningHandler) GetMyEarnings(w http.ResponseWriter, r *http.Request) {
	hostID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	page, perPage := paginationFromQuery(r)
	earnings, err := h.service.GetHostEarnings(r.Context(), hostID, request.PaginatedRequest{Page: page, PerPage: perPage})
	if err != nil {
		handleServiceError(h.log, w, err, "list host earnings")
		return
	}

	utils.ResponseSuccess(w, "success", earnings)
}

// GetMySummary handles GET /api/host/earnings/summary (host only)
func (h *EarningHandler) GetMySummary(w http.ResponseWriter, r *http.Request) {
	hostID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.GetHostSummary(r.Context(), hostID)
	if err != nil {
		handleServiceError(h.log, w, err, "get earning summary")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// ==================== ADMIN METHODS ====================

// GetByStatus handles GET /api/admin/earnings?status= (admin only)
func (h *EarningHandler) GetByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = "pending"
	}

	page, perPage := paginationFromQuery(r)
	earnings, err := h.service.GetByStatus(r.Context(), status, request.PaginatedRequest{Page: page, PerPage: perPage})
	if err != nil {
		handleServiceError(h.log, w, err, "list earnings by status")
		return
	}

	utils.ResponseSuccess(w, "success", earnings)
}

// Approve handles PUT /api/admin/earnings/{id}/approve (admin only)
func (h *EarningHandler) Approve(w http.ResponseWriter, r *http.Request) {
	earningID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid earning ID", nil)
		return
	}

	earning, err := h.service.Approve(r.Context(), earningID)
	if err != nil {
		handleServiceError(h.log, w, err, "approve earning")
		return
	}

	utils.ResponseSuccess(w, "success", earning)
}

// Reject handles PUT /api/admin/earnings/{id}/reject (admin only)
func (h *EarningHandler) Reject(w http.ResponseWriter, r *http.Request) {
	earningID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid earning ID", nil)
		return
	}

	earning, err := h.service.Reject(r.Context(), earningID)
	if err != nil {
		handleServiceError(h.log, w, err, "reject earning")
		return
	}

	utils.ResponseSuccess(w, "success", earning)
}
