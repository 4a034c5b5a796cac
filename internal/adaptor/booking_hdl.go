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

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetUserBookings handles GET /api/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	page, perPage := paginationFromQuery(r)
	bookings, err := h.service.GetUserBookings(r.Context(), userID, request.PaginatedRequest{Page: page, PerPage: perPage})
	if err != nil {
		handleServiceError(h.log, w, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByCode handles GET /api/bookings/code/{code} (protected)
func (h *BookingHandler) GetBookingByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		utils.ResponseBadRequest(w, "Booking code is required", nil)
		return
	}

	booking, err := h.service.GetBookingByCode(r.Context(), code)
	if err != nil {
		handleServiceError(h.log, w, err, "get booking by code")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	if err := h.service.CancelBooking(r.Context(), userID, bookingID); err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetPaymentQR handles GET /api/bookings/{id}/payment-qr (protected)
func (h *BookingHandler) GetPaymentQR(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	qr, err := h.service.GetPaymentQR(r.Context(), userID, bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get payment QR")
		return
	}

	utils.ResponseSuccess(w, "success", qr)
}

// ==================== HOST METHODS ====================

// CheckIn handles PUT /api/host/bookings/{id}/check-in (host only)
func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	hostID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	if err := h.service.CheckIn(r.Context(), hostID, bookingID); err != nil {
		handleServiceError(h.log, w, err, "check in booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// CheckOut handles PUT /api/host/bookings/{id}/check-out (host only)
func (h *BookingHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	hostID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	if err := h.service.CheckOut(r.Context(), hostID, bookingID); err != nil {
		handleServiceError(h.log, w, err, "check out booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
