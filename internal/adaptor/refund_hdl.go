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

type RefundHandler struct {
	service usecase.RefundService
	log     *zap.Logger
}

func NewRefundHandler(service usecase.RefundService, log *zap.Logger) *RefundHandler {
	return &RefundHandler{
		service: service,
		log:     log.With(zap.String("handler", "refund")),
	}
}

// CreateTicket handles POST /api/refund-tickets (protected)
func (h *RefundHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateRefundTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	ticket, err := h.service.CreateTicket(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create refund ticket")
		return
	}

	utils.ResponseCreated(w, "success", ticket)
}

// GetMyTickets handles GET /api/refund-tickets (protected)
func (h *RefundHandler) GetMyTickets(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	page, perPage := paginationFromQuery(r)
	tickets, err := h.service.GetCustomerTickets(r.Context(), userID, request.PaginatedRequest{Page: page, PerPage: perPage})
	if err != nil {
		handleServiceError(h.log, w, err, "list refund tickets")
		return
	}

	utils.ResponseSuccess(w, "success", tickets)
}

// GetTicket handles GET /api/refund-tickets/{id} (owner or admin)
func (h *RefundHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	ticketID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid ticket ID", nil)
		return
	}

	ticket, err := h.service.GetTicket(r.Context(), userID, ticketID)
	if err != nil {
		handleServiceError(h.log, w, err, "get refund ticket")
		return
	}

	utils.ResponseSuccess(w, "success", ticket)
}

// CancelTicket handles PUT /api/refund-tickets/{id}/cancel (protected)
func (h *RefundHandler) CancelTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	ticketID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid ticket ID", nil)
		return
	}

	if err := h.service.CancelTicket(r.Context(), userID, ticketID); err != nil {
		handleServiceError(h.log, w, err, "cancel refund ticket")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetHostTickets handles GET /api/host/refund-tickets (host only)
func (h *RefundHandler) GetHostTickets(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	page, perPage := paginationFromQuery(r)
	tickets, err := h.service.GetHostTickets(r.Context(), userID, request.PaginatedRequest{Page: page, PerPage: perPage})
	if err != nil {
		handleServiceError(h.log, w, err, "list host refund tickets")
		return
	}

	utils.ResponseSuccess(w, "success", tickets)
}

// ==================== ADMIN METHODS ====================

// GetAllTickets handles GET /api/admin/refund-tickets (admin only)
func (h *RefundHandler) GetAllTickets(w http.ResponseWriter, r *http.Request) {
	page, perPage := paginationFromQuery(r)
	tickets, err := h.service.GetAllTickets(r.Context(), request.PaginatedRequest{Page: page, PerPage: perPage})
	if err != nil {
		handleServiceError(h.log, w, err, "list all refund tickets")
		return
	}

	utils.ResponseSuccess(w, "success", tickets)
}

// ProcessTicket handles PUT /api/admin/refund-tickets/{id} (admin only)
func (h *RefundHandler) ProcessTicket(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	ticketID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid ticket ID", nil)
		return
	}

	var req request.ProcessRefundTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	ticket, err := h.service.ProcessTicket(r.Context(), adminID, ticketID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "process refund ticket")
		return
	}

	utils.ResponseSuccess(w, "success", ticket)
}

// GetStatistics handles GET /api/admin/refund-tickets/statistics (admin only)
func (h *RefundHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "get refund statistics")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
