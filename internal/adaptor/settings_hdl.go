package adaptor

import (
	"encoding/json"
	"net/http"

	"homestay-booking/internal/dto/request"
	"homestay-booking/internal/usecase"
	"homestay-booking/pkg/utils"

	"go.uber.org/zap"
)

type SettingsHandler struct {
	service usecase.SettingsService
	log     *zap.Logger
}

func NewSettingsHandler(service usecase.SettingsService, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		log:     log.With(zap.String("handler", "settings")),
	}
}

// GetBankAccount handles GET /api/bank-account (protected)
func (h *SettingsHandler) GetBankAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetBankAccount(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "get bank account")
		return
	}

	utils.ResponseSuccess(w, "success", account)
}

// UpdateBankAccount handles PUT /api/admin/bank-account (admin only)
func (h *SettingsHandler) UpdateBankAccount(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateBankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	account, err := h.service.UpdateBankAccount(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update bank account")
		return
	}

	utils.ResponseSuccess(w, "success", account)
}
