package adaptor

import (
	"encoding/json"
	"net/http"

	"homestay-booking/internal/dto/request"
	"homestay-booking/internal/usecase"
	"homestay-booking/pkg/utils"

	"go.uber.org/zap"
)

type WebhookHandler struct {
	service usecase.WebhookService
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.WebhookService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// IngestBankTransfer handles POST /api/webhook/bank-transfer (API key)
func (h *WebhookHandler) IngestBankTransfer(w http.ResponseWriter, r *http.Request) {
	var req request.BankTransferEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.Ingest(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "ingest bank transfer")
		return
	}

	utils.ResponseCreated(w, "success", result)
}

// GetUnmatchedPayments handles GET /api/admin/payments/unmatched (admin only)
func (h *WebhookHandler) GetUnmatchedPayments(w http.ResponseWriter, r *http.Request) {
	page, perPage := paginationFromQuery(r)
	payments, err := h.service.ListUnmatched(r.Context(), request.PaginatedRequest{Page: page, PerPage: perPage})
	if err != nil {
		handleServiceError(h.log, w, err, "list unmatched payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}

// MatchPayment handles POST /api/admin/payments/match (admin only)
func (h *WebhookHandler) MatchPayment(w http.ResponseWriter, r *http.Request) {
	var req request.ManualMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.ManualMatch(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "match payment")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
