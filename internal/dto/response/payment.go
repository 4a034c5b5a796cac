package response

import (
	"time"

	"homestay-booking/internal/data/entity"
)

type PaymentResponse struct {
	ID          string     `json:"id"`
	BookingID   string     `json:"booking_id,omitempty"`
	Amount      int64      `json:"amount"`
	Method      string     `json:"method"`
	Status      string     `json:"status"`
	ExternalRef string     `json:"external_ref"`
	Description string     `json:"description,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func PaymentToResponse(p *entity.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:          p.ID.String(),
		Amount:      p.Amount,
		Method:      p.Method,
		Status:      string(p.Status),
		ExternalRef: p.ExternalRef,
		Description: p.Description,
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
	}

	if p.BookingID != nil {
		resp.BookingID = p.BookingID.String()
	}

	return resp
}

// IngestResponse reports the matching outcome for one webhook delivery.
type IngestResponse struct {
	Outcome     string          `json:"outcome"` // matched | unmatched | underpaid | replayed
	Payment     PaymentResponse `json:"payment"`
	BookingCode string          `json:"booking_code,omitempty"`
}
